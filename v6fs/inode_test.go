package v6fs

import "testing"

func TestDecodeInodeOffsets(t *testing.T) {
	in := rawInode{
		mode:  modeAlloc | fmtRegular | modeRead | modeWrite,
		nlink: 3,
		uid:   42,
		gid:   7,
		size:  1000,
		addr:  [8]uint16{5, 6, 0, 0, 0, 0, 0, 0},
		atime: 1000000,
		mtime: 2000000,
	}
	rec := in.encode()
	if len(rec) != InodeSize {
		t.Fatalf("encode() produced %d bytes, want %d", len(rec), InodeSize)
	}

	got, err := decodeInode(rec, 3)
	if err != nil {
		t.Fatalf("decodeInode: %v", err)
	}
	if got.Number != 3 {
		t.Errorf("Number = %d, want 3", got.Number)
	}
	if got.NLink != 3 || got.UID != 42 || got.GID != 7 {
		t.Errorf("NLink/UID/GID = %d/%d/%d, want 3/42/7", got.NLink, got.UID, got.GID)
	}
	if got.Size != 1000 {
		t.Errorf("Size = %d, want 1000", got.Size)
	}
	if got.Addr != [8]uint16{5, 6, 0, 0, 0, 0, 0, 0} {
		t.Errorf("Addr = %v", got.Addr)
	}
	if got.ATime.Unix() != 1000000 {
		t.Errorf("ATime = %v, want unix 1000000", got.ATime)
	}
	if got.MTime.Unix() != 2000000 {
		t.Errorf("MTime = %v, want unix 2000000", got.MTime)
	}
	if !got.IsAllocated() {
		t.Error("IsAllocated() = false, want true")
	}
	if got.IsLarge() {
		t.Error("IsLarge() = true, want false")
	}
	if got.Type() != TypeRegular {
		t.Errorf("Type() = %v, want TypeRegular", got.Type())
	}
}

func TestDecodeInodeTruncated(t *testing.T) {
	if _, err := decodeInode(make([]byte, 10), 1); err == nil {
		t.Fatal("decodeInode with a 10-byte record: want error, got nil")
	}
}

func TestInodeTypeCatchAll(t *testing.T) {
	// IFMT == 0x6000 is the defined block-device value, but any other IFMT
	// combination the mask can produce is also one of those four values
	// since the mask only keeps two bits; TypeBlockDevice is the default
	// arm for both 0x6000 and anything decode might otherwise not expect.
	rec := rawInode{mode: fmtBlock}.encode()
	in, err := decodeInode(rec, 1)
	if err != nil {
		t.Fatalf("decodeInode: %v", err)
	}
	if in.Type() != TypeBlockDevice {
		t.Errorf("Type() = %v, want TypeBlockDevice", in.Type())
	}
}

func TestModeStringCharacterSet(t *testing.T) {
	cases := []struct {
		name string
		mode uint16
		want string
	}{
		{
			name: "plain regular rw-r--r--",
			mode: fmtRegular | modeAlloc | modeRead | modeWrite | (modeRead >> 3) | (modeRead >> 6),
			want: "-rw-r--r--.*",
		},
		{
			name: "directory all exec",
			mode: fmtDir | modeAlloc | modeRead | modeWrite | modeExec |
				(modeRead >> 3) | modeExec>>3 | (modeRead >> 6) | modeExec>>6,
			want: "drwxr-xr-x.*",
		},
		{
			name: "setuid owner, no owner exec -> S",
			mode: fmtRegular | modeAlloc | modeRead | modeWrite | modeSUID,
			want: "-rwS------.*",
		},
		{
			name: "setuid owner, owner exec -> s",
			mode: fmtRegular | modeAlloc | modeRead | modeWrite | modeExec | modeSUID,
			want: "-rws------.*",
		},
		{
			name: "unallocated small regular file",
			mode: fmtRegular,
			want: "----------..",
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			rec := rawInode{mode: c.mode}.encode()
			in, err := decodeInode(rec, 1)
			if err != nil {
				t.Fatalf("decodeInode: %v", err)
			}
			if got := in.ModeString(); got != c.want {
				t.Errorf("ModeString() = %q, want %q", got, c.want)
			}
		})
	}
}

func TestModeStringLargeFlag(t *testing.T) {
	rec := rawInode{mode: fmtRegular | modeAlloc | modeLarge}.encode()
	in, err := decodeInode(rec, 1)
	if err != nil {
		t.Fatalf("decodeInode: %v", err)
	}
	got := in.ModeString()
	if got[len(got)-2] != 'L' {
		t.Errorf("ModeString() = %q, want ILARG flag char 'L' second-to-last", got)
	}
}

func TestMajorMinor(t *testing.T) {
	rec := rawInode{mode: fmtBlock | modeAlloc, addr: [8]uint16{0x0105, 0, 0, 0, 0, 0, 0, 0}}.encode()
	in, err := decodeInode(rec, 1)
	if err != nil {
		t.Fatalf("decodeInode: %v", err)
	}
	if in.Major() != 1 {
		t.Errorf("Major() = %d, want 1", in.Major())
	}
	if in.Minor() != 5 {
		t.Errorf("Minor() = %d, want 5", in.Minor())
	}
}
