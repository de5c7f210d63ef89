package pipeline

import "testing"

func TestLineProcessor_Normalization(t *testing.T) {
	p := defaultProcs()()
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"0.0.0.0 Example.COM.", "example.com", true},
		{"İNSTAGRAM.COM", "", false},
		{"\u212Aexample.com", "kexample.com", true},
		{"\x1cexample.com", "example.com", true},
	}
	for _, tt := range tests {
		got, ok := p.Process(tt.in)
		if ok != tt.ok || got != tt.want {
			t.Errorf("Process(%q) = (%q,%v), want (%q,%v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}
