package enum

import (
	"testing"

	"github.com/arcfield/gsmmodem/cursor"
)

func TestMemoryTokenMatch(t *testing.T) {
	c := cursor.New(`"SM",1`)
	k := MemoryToken(c)
	if k != MemorySM {
		t.Fatalf("got %v, want SM", k)
	}
}

func TestMemoryTokenUnknown(t *testing.T) {
	c := cursor.New(`"XX",1`)
	k := MemoryToken(c)
	if k != MemoryUnknown {
		t.Fatalf("got %v, want Unknown", k)
	}
}

func TestMemoryListBitset(t *testing.T) {
	c := cursor.New(`("SM","ME","MT")`)
	bits := MemoryList(c)
	want := uint32(1<<MemorySM | 1<<MemoryME | 1<<MemoryMT)
	if bits != want {
		t.Fatalf("got %b, want %b", bits, want)
	}
}

func TestMemoryListEmpty(t *testing.T) {
	c := cursor.New(`()`)
	bits := MemoryList(c)
	if bits != 0 {
		t.Fatalf("got %b, want 0", bits)
	}
}

func TestSetMemoryMapTooLarge(t *testing.T) {
	defer SetMemoryMap(defaultMemoryMap)
	entries := make([]MemoryMapEntry, maxMemoryKinds+1)
	for i := range entries {
		entries[i] = MemoryMapEntry{Token: "X", Kind: MemoryKind(i)}
	}
	if err := SetMemoryMap(entries); err != ErrTooManyMemoryKinds {
		t.Fatalf("got %v, want ErrTooManyMemoryKinds", err)
	}
}

func TestSmsStatusToken(t *testing.T) {
	cases := map[string]SmsStatus{
		`"REC UNREAD"`:  SmsUnread,
		`"REC READ"`:    SmsRead,
		`"STO UNSENT"`:  SmsUnsent,
		`"REC SENT"`:    SmsSent,
	}
	for in, want := range cases {
		c := cursor.New(in)
		got, ok := SmsStatusToken(c)
		if !ok || got != want {
			t.Fatalf("%q: got (%v,%v), want (%v,true)", in, got, ok, want)
		}
	}
}

func TestSmsStatusTokenUnmatched(t *testing.T) {
	c := cursor.New(`"BOGUS"`)
	_, ok := SmsStatusToken(c)
	if ok {
		t.Fatalf("expected !ok for unmatched status token")
	}
}

func TestNetworkRegStatusRegistered(t *testing.T) {
	if !RegRegistered.Registered() {
		t.Fatal("RegRegistered should report Registered() == true")
	}
	if !RegConnected.Registered() {
		t.Fatal("RegConnected should report Registered() == true")
	}
	if !RegConnectedRoaming.Registered() {
		t.Fatal("RegConnectedRoaming should report Registered() == true")
	}
	if RegNotRegistered.Registered() || RegSearching.Registered() || RegDenied.Registered() {
		t.Fatal("non-registered states should report Registered() == false")
	}
}
