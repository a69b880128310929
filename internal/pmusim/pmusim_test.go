// SPDX-FileCopyrightText: Copyright (c) 2025 the pmrelayd authors
// SPDX-License-Identifier: Apache-2.0

package pmusim_test

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/edgefw/pmrelayd/internal/pmusim"
	"github.com/edgefw/pmrelayd/pkg/mailbox"
	"github.com/edgefw/pmrelayd/pkg/pmapi"
)

func newPMU() *pmusim.PMU {
	return pmusim.New(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestLiveness(t *testing.T) {
	t.Parallel()

	p := newPMU()

	if !p.Up() {
		t.Error("fresh simulator reports down")
	}

	p.SetDown(true)

	if p.Up() {
		t.Error("simulator reports up while down")
	}

	if _, err := p.Request(mailbox.Message{uint32(pmapi.GetAPIVersion)}); !errors.Is(err, pmusim.ErrDown) {
		t.Errorf("Request while down = %v, want ErrDown", err)
	}
}

func TestVersionRequest(t *testing.T) {
	t.Parallel()

	p := newPMU()
	p.SetVersion(pmapi.MakeVersion(2, 0))

	resp, err := p.Request(mailbox.Message{uint32(pmapi.GetAPIVersion)})
	if err != nil {
		t.Fatal(err)
	}

	want := mailbox.Message{uint32(pmapi.Success), uint32(pmapi.MakeVersion(2, 0))}
	if diff := cmp.Diff(want, resp); diff != "" {
		t.Errorf("version response (-want +got):\n%s", diff)
	}
}

func TestNodeDoubleRequest(t *testing.T) {
	t.Parallel()

	p := newPMU()

	resp, err := p.Request(mailbox.Message{uint32(pmapi.RequestNode), 6, 0xf, 100, 0})
	if err != nil || resp[0] != uint32(pmapi.Success) {
		t.Fatalf("first RequestNode = (%v, %v)", resp[0], err)
	}

	resp, _ = p.Request(mailbox.Message{uint32(pmapi.RequestNode), 6, 0xf, 100, 0})
	if resp[0] != uint32(pmapi.ErrDoubleRequest) {
		t.Errorf("second RequestNode status = %v, want ErrDoubleRequest", pmapi.Status(resp[0]))
	}
}

func TestRequirementNeedsNode(t *testing.T) {
	t.Parallel()

	p := newPMU()

	resp, _ := p.Request(mailbox.Message{uint32(pmapi.SetRequirement), 6, 0x3, 50, 0})
	if resp[0] != uint32(pmapi.ErrAccess) {
		t.Errorf("SetRequirement without node = %v, want ErrAccess", pmapi.Status(resp[0]))
	}
}

func TestMMIOMasking(t *testing.T) {
	t.Parallel()

	p := newPMU()

	if _, err := p.Request(mailbox.Message{uint32(pmapi.MMIOWrite), 0x100, 0xffffffff, 0xaaaa5555}); err != nil {
		t.Fatal(err)
	}

	// Only masked bits may change.
	if _, err := p.Request(mailbox.Message{uint32(pmapi.MMIOWrite), 0x100, 0x0000ffff, 0xffffffff}); err != nil {
		t.Fatal(err)
	}

	resp, err := p.Request(mailbox.Message{uint32(pmapi.MMIORead), 0x100})
	if err != nil {
		t.Fatal(err)
	}

	if resp[1] != 0xaaaaffff {
		t.Errorf("register value = %#x, want 0xaaaaffff", resp[1])
	}
}

func TestResetStatus(t *testing.T) {
	t.Parallel()

	p := newPMU()

	if _, err := p.Request(mailbox.Message{uint32(pmapi.ResetAssert), 12, 1}); err != nil {
		t.Fatal(err)
	}

	resp, _ := p.Request(mailbox.Message{uint32(pmapi.ResetGetStatus), 12})
	if resp[1] != 1 {
		t.Errorf("reset 12 status = %d, want 1", resp[1])
	}
}

func TestUnknownAPI(t *testing.T) {
	t.Parallel()

	p := newPMU()

	resp, _ := p.Request(mailbox.Message{0x500})
	if resp[0] != uint32(pmapi.ErrAPIID) {
		t.Errorf("unknown api status = %v, want ErrAPIID", pmapi.Status(resp[0]))
	}
}

func TestNotifyDelivery(t *testing.T) {
	t.Parallel()

	p := newPMU()

	var got mailbox.Message

	if err := p.Bind(func(m mailbox.Message) { got = m }); err != nil {
		t.Fatal(err)
	}

	p.RequestSuspendOf(1, 100, 0, 10)

	want := mailbox.Message{uint32(pmapi.InitSuspendCallback), 1, 100, 0, 10}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("delivered block (-want +got):\n%s", diff)
	}
}

func TestNonBlockingAcknowledge(t *testing.T) {
	t.Parallel()

	p := newPMU()

	var got []mailbox.Message

	if err := p.Bind(func(m mailbox.Message) { got = append(got, m) }); err != nil {
		t.Fatal(err)
	}

	// Blocking and no-ack requests must not produce a callback block.
	for _, ack := range []uint32{pmapi.AckNone, pmapi.AckBlocking} {
		if _, err := p.Request(mailbox.Message{uint32(pmapi.RequestSuspend), 6, ack, 100, 0}); err != nil {
			t.Fatal(err)
		}
	}

	if len(got) != 0 {
		t.Fatalf("blocking requests produced %d callback blocks", len(got))
	}

	if _, err := p.Request(mailbox.Message{uint32(pmapi.ForcePowerdown), 6, pmapi.AckNonBlocking}); err != nil {
		t.Fatal(err)
	}

	want := []mailbox.Message{
		{uint32(pmapi.AcknowledgeCallback), 6, uint32(pmapi.Success), 0, 0},
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("acknowledge blocks (-want +got):\n%s", diff)
	}
}

func TestNotifyEvent(t *testing.T) {
	t.Parallel()

	p := newPMU()

	var got []mailbox.Message

	if err := p.Bind(func(m mailbox.Message) { got = append(got, m) }); err != nil {
		t.Fatal(err)
	}

	// No notifier registered yet.
	p.NotifyEvent(6, 1)

	if len(got) != 0 {
		t.Fatalf("unregistered node produced %d blocks", len(got))
	}

	if _, err := p.Request(mailbox.Message{uint32(pmapi.RegisterNotifier), 6, 1, 0, 1}); err != nil {
		t.Fatal(err)
	}

	p.NotifyEvent(6, 1)

	want := []mailbox.Message{
		{uint32(pmapi.NotifyCallback), 6, 1, 0, 0},
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("notify blocks (-want +got):\n%s", diff)
	}

	// A disabled notifier stops delivery again.
	if _, err := p.Request(mailbox.Message{uint32(pmapi.RegisterNotifier), 6, 1, 0, 0}); err != nil {
		t.Fatal(err)
	}

	p.NotifyEvent(6, 2)

	if len(got) != 1 {
		t.Errorf("disabled notifier still delivered, got %d blocks", len(got))
	}
}

func TestClose(t *testing.T) {
	t.Parallel()

	p := newPMU()

	if err := p.Close(); err != nil {
		t.Fatal(err)
	}

	if p.Up() {
		t.Error("closed simulator reports up")
	}

	if err := p.Bind(func(mailbox.Message) {}); !errors.Is(err, pmusim.ErrClosed) {
		t.Errorf("Bind after close = %v, want ErrClosed", err)
	}

	if _, err := p.Request(mailbox.Message{}); !errors.Is(err, pmusim.ErrClosed) {
		t.Errorf("Request after close = %v, want ErrClosed", err)
	}
}
