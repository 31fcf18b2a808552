package pvp

import (
	"reflect"
	"runtime"
	"testing"
)

type velocity struct{ X float64 }

type frozen struct{}

type limit struct{ n int }

type sampleSystem struct {
	Session  *Session
	Manager  *Manager
	Pos      *position `pvp:"mut"`
	Vel      *velocity `pvp:"opt"`
	Limit    *limit    `pvp:"res"`
	Label    string
	_        With[tracked]
	_        Without[frozen]
	executed bool
}

func TestAnalyzeSystem(t *testing.T) {
	meta, err := analyzeSystem(reflect.TypeFor[*sampleSystem]())
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if meta.Name != "sampleSystem" {
		t.Fatalf("name = %q", meta.Name)
	}

	want := []FieldKind{
		KindSession, KindManager, KindComponent, KindComponent, KindResource,
		KindPayload, KindPhantomWith, KindPhantomWithout, KindPayload,
	}
	if len(meta.Fields) != len(want) {
		t.Fatalf("fields = %d, want %d", len(meta.Fields), len(want))
	}
	for i, f := range meta.Fields {
		if f.Kind != want[i] {
			t.Errorf("field %s: kind = %v, want %v", f.Name, f.Kind, want[i])
		}
	}

	if !meta.Fields[2].Mutable || meta.Fields[2].Optional {
		t.Error("Pos should be mutable and required")
	}
	if !meta.Fields[3].Optional {
		t.Error("Vel should be optional")
	}

	if !meta.RequireMask.Has(componentID[position]()) || !meta.RequireMask.Has(componentID[tracked]()) {
		t.Error("required components missing from mask")
	}
	if meta.RequireMask.Has(componentID[velocity]()) {
		t.Error("optional component in require mask")
	}
	if !meta.ExcludeMask.Has(componentID[frozen]()) {
		t.Error("excluded component missing from mask")
	}
}

func TestAnalyzeSystemRejectsNonStruct(t *testing.T) {
	if _, err := analyzeSystem(reflect.TypeFor[int]()); err == nil {
		t.Fatal("expected error")
	}
}

func TestParseTag(t *testing.T) {
	tests := []struct {
		tag  string
		want TagInfo
	}{
		{"", TagInfo{}},
		{"mut", TagInfo{Mutable: true}},
		{"opt, mut", TagInfo{Mutable: true, Optional: true}},
		{"res", TagInfo{Resource: true}},
		{"unknown", TagInfo{}},
	}
	for _, tt := range tests {
		if got := parseTag(tt.tag); got != tt.want {
			t.Errorf("parseTag(%q) = %+v, want %+v", tt.tag, got, tt.want)
		}
	}
}

func TestInjectSystem(t *testing.T) {
	meta, err := analyzeSystem(reflect.TypeFor[*sampleSystem]())
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	m := newManager(nil)
	lim := &limit{n: 3}
	m.addResource(reflect.TypeFor[*limit](), reflect.ValueOf(lim))

	s := &Session{manager: m}
	pos := &position{X: 1}
	Add(s, pos)
	Add(s, &tracked{})

	sys := &sampleSystem{Label: "stale", executed: true}
	if !injectSystem(sys, s, meta, m) {
		t.Fatal("inject failed")
	}
	if sys.Session != s || sys.Manager != m || sys.Pos != pos || sys.Limit != lim {
		t.Fatalf("injected = %+v", sys)
	}
	if sys.Vel != nil {
		t.Fatal("optional component should be nil")
	}
	if sys.Label != "" || sys.executed {
		t.Fatal("payload not reset")
	}

	zeroSystem(sys, meta)
	if sys.Session != nil || sys.Manager != nil || sys.Pos != nil || sys.Limit != nil {
		t.Fatalf("zeroed = %+v", sys)
	}
}

func TestInjectSystemMissing(t *testing.T) {
	meta, err := analyzeSystem(reflect.TypeFor[*sampleSystem]())
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	m := newManager(nil)
	s := &Session{manager: m}
	Add(s, &position{})

	if injectSystem(&sampleSystem{}, s, meta, m) {
		t.Fatal("inject succeeded without resource")
	}
}

func TestInjectPooledSystemAcrossSessions(t *testing.T) {
	meta, err := analyzeSystem(reflect.TypeFor[*sampleSystem]())
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	m := newManager(nil)
	m.addResource(reflect.TypeFor[*limit](), reflect.ValueOf(&limit{n: 1}))

	for i := range 8 {
		s := &Session{manager: m}
		pos := &position{X: i}
		Add(s, pos)
		Add(s, &tracked{})

		sys := meta.Pool.Get().(*sampleSystem)
		if !injectSystem(sys, s, meta, m) {
			t.Fatalf("session %d: inject failed", i)
		}
		if sys.Pos != pos || sys.Pos.X != i {
			t.Fatalf("session %d: got position %+v", i, sys.Pos)
		}
		zeroSystem(sys, meta)
		meta.Pool.Put(sys)
		runtime.GC()
	}
}
