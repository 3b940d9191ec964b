package wdled

import (
	"bytes"
	"encoding/hex"
	"errors"
	"log"
	"strings"
	"testing"

	"github.com/open-source-firmware/go-wdled/pkg/drive"
	"github.com/open-source-firmware/go-wdled/pkg/modepage"
)

type selectCall struct {
	param []byte
	save  bool
}

type fakeDrive struct {
	identity  drive.Identity
	pages     map[modepage.PageControl]string
	senseErr  error
	selectErr error

	readOnly bool
	senses   int
	selects  []selectCall
	closed   bool
}

func (f *fakeDrive) Identify() (*drive.Identity, error) {
	id := f.identity
	return &id, nil
}

func (f *fakeDrive) ModeSense(page uint8, pc modepage.PageControl, buf []byte) error {
	f.senses++
	if f.senseErr != nil {
		return f.senseErr
	}
	b, _ := hex.DecodeString(strings.ReplaceAll(f.pages[pc], " ", ""))
	copy(buf, b)
	return nil
}

func (f *fakeDrive) ModeSelect(param []byte, save bool) error {
	f.selects = append(f.selects, selectCall{append([]byte(nil), param...), save})
	return f.selectErr
}

func (f *fakeDrive) Close() error {
	f.closed = true
	return nil
}

func newFakeDrive() *fakeDrive {
	return &fakeDrive{
		identity: drive.Identity{Vendor: "WD", Product: "My Passport 259F", Revision: "1034"},
		pages: map[modepage.PageControl]string{
			modepage.PageControlCurrent:    "a1 0a 30 00 00 01 00 00 0a 00 00 00",
			modepage.PageControlChangeable: "a1 0a 00 00 00 03 00 00 ff 00 00 00",
			modepage.PageControlDefault:    "a1 0a 30 00 00 00 00 00 00 00 00 00",
			modepage.PageControlSaved:      "a1 0a 30 00 00 01 00 00 0a 00 00 00",
		},
	}
}

type testRun struct {
	c       *Controller
	logBuf  *bytes.Buffer
	reports []modepage.LEDState
	opens   int
}

func newTestRun(f *fakeDrive) *testRun {
	tr := &testRun{logBuf: &bytes.Buffer{}}
	tr.c = &Controller{
		Open: func(device string, readOnly bool) (drive.DriveIntf, error) {
			tr.opens++
			f.readOnly = readOnly
			return f, nil
		},
		Supported: Supported,
		Report: func(st *Status) error {
			tr.reports = append(tr.reports, st.LED)
			return nil
		},
		Log: log.New(tr.logBuf, "", 0),
	}
	return tr
}

func TestRunReadOnly(t *testing.T) {
	f := newFakeDrive()
	tr := newTestRun(f)
	st, err := tr.c.Run("/dev/sdz", Request{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := modepage.LEDState{Current: 10, Default: 0, Saved: 10}
	if len(tr.reports) != 1 || tr.reports[0] != want {
		t.Errorf("reports = %+v; want [%+v]", tr.reports, want)
	}
	if want := "current=10 default=0 saved=10"; st.LED.String() != want {
		t.Errorf("LED = %q; want %q", st.LED, want)
	}
	if len(f.selects) != 0 || st.Written {
		t.Errorf("read-only run submitted a mode select")
	}
	if !f.readOnly {
		t.Errorf("device not opened read-only")
	}
	if !f.closed {
		t.Errorf("device not closed")
	}
	if got, want := tr.logBuf.String(), "/dev/sdz: WD My Passport 259F (rev 1034)\n"; got != want {
		t.Errorf("log = %q; want %q", got, want)
	}
}

func TestRunSaveOff(t *testing.T) {
	f := newFakeDrive()
	f.pages[modepage.PageControlCurrent] = "a1 0a 30 00 00 01 00 00 ff 00 00 00"
	tr := newTestRun(f)
	req, err := ParseRequest("save:off")
	if err != nil {
		t.Fatalf("ParseRequest: %v", err)
	}
	st, err := tr.c.Run("/dev/sdz", req)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if f.readOnly {
		t.Errorf("device opened read-only for a write")
	}
	if len(f.selects) != 1 {
		t.Fatalf("selects = %d; want 1", len(f.selects))
	}
	call := f.selects[0]
	if !call.save {
		t.Errorf("save flag not passed")
	}
	want, _ := hex.DecodeString("0000000000000000" + "210a30000001000000000000")
	if !bytes.Equal(call.param, want) {
		t.Errorf("param = %x; want %x", call.param, want)
	}
	p := modepage.Decode(call.param[modepage.HeaderSize:])
	if p.LED() != 0x00 || p.Saveable() {
		t.Errorf("page = %s", p)
	}
	if !st.Written || len(tr.reports) != 1 {
		t.Errorf("Written = %v, reports = %d", st.Written, len(tr.reports))
	}
}

func TestRunUnsupported(t *testing.T) {
	testCases := []struct {
		name    string
		vendor  string
		product string
		want    error
	}{
		{"Vendor", "SEAGATE", "Expansion", ErrUnknownVendor},
		{"Product", "WD", "Elements 25A3", ErrUnknownProduct},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFakeDrive()
			f.identity.Vendor, f.identity.Product = tc.vendor, tc.product
			tr := newTestRun(f)
			_, err := tr.c.Run("/dev/sdz", Request{Set: true, LED: 0})
			if !errors.Is(err, tc.want) || !errors.Is(err, ErrUnsupportedDevice) {
				t.Fatalf("Run() = %v; want %v", err, tc.want)
			}
			if f.senses != 0 || len(f.selects) != 0 {
				t.Errorf("device accessed after failed check: %d senses, %d selects", f.senses, len(f.selects))
			}
			if !f.closed {
				t.Errorf("device not closed")
			}
		})
	}
}

func TestRunForce(t *testing.T) {
	f := newFakeDrive()
	f.identity.Vendor = "ACME"
	tr := newTestRun(f)
	req, _ := ParseRequest("FORCESET:on")
	if _, err := tr.c.Run("/dev/sdz", req); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(f.selects) != 1 {
		t.Errorf("selects = %d; want 1", len(f.selects))
	}
	logs := tr.logBuf.String()
	for _, want := range []string{"WARNING: Skipping supported vendor/product checks!", "MANUALLY SKIPPED UNSUPPORTED VENDOR CHECK!"} {
		if !strings.Contains(logs, want) {
			t.Errorf("log %q does not contain %q", logs, want)
		}
	}
}

func TestRunForceStillValidates(t *testing.T) {
	f := newFakeDrive()
	f.identity.Product = "Elements"
	f.pages[modepage.PageControlCurrent] = "a1 0a 31 00 00 01 00 00 ff 00 00 00"
	tr := newTestRun(f)
	_, err := tr.c.Run("/dev/sdz", Request{Force: true, Set: true})
	if !errors.Is(err, modepage.ErrUnexpectedMagic) {
		t.Fatalf("Run() = %v; want %v", err, modepage.ErrUnexpectedMagic)
	}
	if !strings.Contains(tr.logBuf.String(), "MANUALLY SKIPPED UNSUPPORTED DEVICE CHECK!") {
		t.Errorf("missing product warning in %q", tr.logBuf.String())
	}
	if len(f.selects) != 0 || len(tr.reports) != 0 {
		t.Errorf("invalid page was reported or written")
	}
}

func TestRunLEDNotChangeable(t *testing.T) {
	f := newFakeDrive()
	f.pages[modepage.PageControlChangeable] = "a1 0a 00 00 00 03 00 00 0f 00 00 00"
	tr := newTestRun(f)
	_, err := tr.c.Run("/dev/sdz", Request{Set: true, LED: 0xff})
	if !errors.Is(err, modepage.ErrLEDNotChangeable) {
		t.Fatalf("Run() = %v; want %v", err, modepage.ErrLEDNotChangeable)
	}
	if !strings.Contains(err.Error(), "/dev/sdz") || !strings.Contains(err.Error(), "0x0f") {
		t.Errorf("error lacks context: %v", err)
	}
	if len(f.selects) != 0 {
		t.Errorf("mode select issued on a non-changeable page")
	}
}

func TestRunTransportErrors(t *testing.T) {
	sentinel := errors.New("transport error")

	f := newFakeDrive()
	f.senseErr = sentinel
	tr := newTestRun(f)
	if _, err := tr.c.Run("/dev/sdz", Request{}); !errors.Is(err, ErrFetchFailed) {
		t.Errorf("Run() = %v; want %v", err, ErrFetchFailed)
	}
	if f.senses != 1 {
		t.Errorf("fetch retried: %d mode senses", f.senses)
	}

	f = newFakeDrive()
	f.selectErr = sentinel
	tr = newTestRun(f)
	st, err := tr.c.Run("/dev/sdz", Request{Set: true, LED: 0})
	if !errors.Is(err, ErrSubmitFailed) {
		t.Errorf("Run() = %v; want %v", err, ErrSubmitFailed)
	}
	if st == nil || st.Written || len(tr.reports) != 1 || len(f.selects) != 1 {
		t.Errorf("unexpected state after failed submit: %+v, %d reports, %d selects", st, len(tr.reports), len(f.selects))
	}

	tr.c.Open = func(string, bool) (drive.DriveIntf, error) { return nil, sentinel }
	if _, err := tr.c.Run("/dev/sdz", Request{}); !errors.Is(err, ErrOpenFailed) {
		t.Errorf("Run() = %v; want %v", err, ErrOpenFailed)
	}
}

func TestRunReportError(t *testing.T) {
	f := newFakeDrive()
	tr := newTestRun(f)
	sentinel := errors.New("stdout closed")
	tr.c.Report = func(*Status) error { return sentinel }
	if _, err := tr.c.Run("/dev/sdz", Request{Set: true}); !errors.Is(err, sentinel) {
		t.Errorf("Run() = %v; want %v", err, sentinel)
	}
	if len(f.selects) != 0 {
		t.Errorf("write issued after a failed report")
	}
}
