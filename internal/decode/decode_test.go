package decode

import (
	"errors"
	"strings"
	"testing"

	"github.com/user/ibtws/iberrors"
	"github.com/user/ibtws/wire"
)

func readerFor(t *testing.T, msg string) *wire.FieldReader {
	t.Helper()
	ch := make(chan string, 64)
	for _, f := range strings.Split(msg, "|") {
		ch <- f
	}
	close(ch)
	return wire.NewFieldReader(ch)
}

func TestNextStopSentinel(t *testing.T) {
	r := readerFor(t, "-1")
	events, err := Next(r)
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if len(events) != 1 || events[0].Kind != KindStop {
		t.Fatalf("events = %+v, want single KindStop", events)
	}
}

func TestNextUnsupportedMessageID(t *testing.T) {
	r := readerFor(t, "999999")
	_, err := Next(r)
	if !errors.Is(err, iberrors.ErrUnsupportedMessageID) {
		t.Fatalf("err = %v, want ErrUnsupportedMessageID", err)
	}
}

func TestNextCurrentTime(t *testing.T) {
	r := readerFor(t, "49|1|1700000000")
	events, err := Next(r)
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if len(events) != 1 || events[0].Kind != KindCurrentTime {
		t.Fatalf("events = %+v, want single KindCurrentTime", events)
	}
	payload := events[0].Payload.(*CurrentTimeEvent)
	if payload.Seconds != 1700000000 {
		t.Fatalf("Seconds = %d, want 1700000000", payload.Seconds)
	}
}

func TestNextErrorPreVersion2Flattens(t *testing.T) {
	r := readerFor(t, "4|1|connection reset")
	events, err := Next(r)
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	ev := events[0].Payload.(*ErrorEvent)
	if events[0].ReqID != 0 || ev.Code != 0 {
		t.Fatalf("pre-v2 error ReqID/Code = %d/%d, want 0/0", events[0].ReqID, ev.Code)
	}
	if ev.Message != "connection reset" {
		t.Fatalf("Message = %q", ev.Message)
	}
}

func TestNextErrorModernForm(t *testing.T) {
	r := readerFor(t, "4|2|7|321|order rejected")
	events, err := Next(r)
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	ev := events[0].Payload.(*ErrorEvent)
	if events[0].ReqID != 7 || ev.Code != 321 {
		t.Fatalf("ReqID/Code = %d/%d, want 7/321", events[0].ReqID, ev.Code)
	}
}

func TestNextTickPriceFansOutTickSize(t *testing.T) {
	r := readerFor(t, "1|3|5|1|150.25|1000|1")
	events, err := Next(r)
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("len(events) = %d, want 2 (tick_price + derived tick_size)", len(events))
	}
	if events[0].Kind != KindTickPrice || events[1].Kind != KindTickSize {
		t.Fatalf("kinds = %v, %v", events[0].Kind, events[1].Kind)
	}
	size := events[1].Payload.(*TickSizeEvent)
	if size.TickType != 0 {
		t.Fatalf("derived TickType = %d, want 0 (bid->bid_size)", size.TickType)
	}
}

func TestNextTickPriceNoFanOutForUnmappedType(t *testing.T) {
	r := readerFor(t, "1|3|5|8|150.25|1000|1")
	events, err := Next(r)
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("len(events) = %d, want 1 (no derived tick_size)", len(events))
	}
}

func TestNextHistoricalDataYieldsBarsPlusTerminator(t *testing.T) {
	r := readerFor(t, "17|3|9|20240101|20240102|2|"+
		"20240101|1|2|0.5|1.5|100|1.1|false|1|"+
		"20240102|2|3|1.5|2.5|200|2.1|false|1")
	events, err := Next(r)
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("len(events) = %d, want 3 (2 bars + terminator)", len(events))
	}
	if events[0].Kind != KindHistoricalData || events[1].Kind != KindHistoricalData {
		t.Fatalf("bar kinds = %v, %v", events[0].Kind, events[1].Kind)
	}
	last := events[2].Payload.(*HistoricalDataEvent)
	if !last.Done {
		t.Fatalf("terminal event Done = false, want true")
	}
	if last.Bar.Date != "finished-20240101-20240102" {
		t.Fatalf("terminal Date = %q", last.Bar.Date)
	}
	if last.Bar.Open != -1 || last.Bar.Volume != -1 || last.Bar.Count != -1 {
		t.Fatalf("terminal Bar = %+v, want all numeric fields -1", last.Bar)
	}
}

func TestNextRejectsLowVersionOpenOrder(t *testing.T) {
	r := readerFor(t, "5|30")
	_, err := Next(r)
	if !errors.Is(err, iberrors.ErrProtocol) {
		t.Fatalf("err = %v, want ErrProtocol for version below minimum", err)
	}
}

func TestNextCommissionReport(t *testing.T) {
	r := readerFor(t, "59|1|exec-1|1.25|USD|0.5|0|0")
	events, err := Next(r)
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	report := events[0].Payload.(*CommissionReportEvent).Report
	if report.ExecID != "exec-1" || report.Commission != 1.25 {
		t.Fatalf("report = %+v", report)
	}
}
