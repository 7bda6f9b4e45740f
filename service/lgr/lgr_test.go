package lgr

import (
	"errors"
	"log/slog"
	"strings"
	"testing"

	xerrors "github.com/mdobak/go-xerrors"
)

func TestMarshalStackRendersFramesForLoggedErrors(t *testing.T) {
	// Errors reach the logger the way main and the pipeline build them.
	frames := marshalStack(xerrors.New("cold start failed"))

	if len(frames) == 0 {
		t.Fatal("stack frames: got none for a go-xerrors error")
	}
	top := frames[0]
	if top.Func == "" || top.Source == "" || top.Line == 0 {
		t.Errorf("top frame incomplete: %+v", top)
	}
	if !strings.Contains(top.Source, "lgr_test.go") {
		t.Errorf("top frame source: got %q, want this test file", top.Source)
	}
}

func TestMarshalStackNilForPlainErrors(t *testing.T) {
	if frames := marshalStack(errors.New("no stack attached")); frames != nil {
		t.Errorf("plain error frames: got %v, want nil", frames)
	}
}

func TestReplaceAttrExpandsErrorValues(t *testing.T) {
	attr := replaceAttr(nil, slog.Any("error", xerrors.New("boom")))

	if attr.Value.Kind() != slog.KindGroup {
		t.Fatalf("attr kind: got %v, want group", attr.Value.Kind())
	}

	var sawMsg, sawTrace bool
	for _, a := range attr.Value.Group() {
		switch a.Key {
		case "msg":
			sawMsg = a.Value.String() == "boom"
		case "trace":
			sawTrace = true
		}
	}
	if !sawMsg {
		t.Error("expanded error group missing msg")
	}
	if !sawTrace {
		t.Error("expanded error group missing trace")
	}
}
