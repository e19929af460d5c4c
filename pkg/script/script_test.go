package script

import (
	"os"
	"strings"
	"testing"

	"github.com/picogrid/cmo-scenario-gen/pkg/corpus"
	"github.com/picogrid/cmo-scenario-gen/pkg/geo"
	"github.com/picogrid/cmo-scenario-gen/pkg/scenario"
)

func sampleInstance() *scenario.Instance {
	return &scenario.Instance{
		Shape: "Scenario_1",
		Seed:  3,
		Split: scenario.SplitValidate,
		Zone:  "A",
		Jet:   scenario.Entity{Position: geo.Position{Lat: -1.25, Lon: 2.5}, DBID: 101},
		Target: scenario.Entity{
			Position: geo.Position{Lat: 7.125, Lon: 12.000000000000002},
			DBID:     202,
		},
		Sites:    []geo.Position{{Lat: 1, Lon: 3}, {Lat: 2.5, Lon: 4.75}, {Lat: 4, Lon: 6}},
		SiteDBID: 303,
	}
}

func TestRenderSubstitutesUnits(t *testing.T) {
	out := Render(sampleInstance(), DefaultEngine())

	wants := []string{
		`unitname ="shooter", dbid =101, side = "attacker_side", Latitude =-1.25, Longitude =2.5, Altitude = "4000 ft", LoadoutID = 33070`,
		`unitname ="target_ammo", dbid =202, side = "target_side", Latitude =7.125, Longitude =12.000000000000002 `,
		`unitname ='sam', dbid =303, side = 'target_side', Latitude = 2.5, Longitude = 4.75 `,
		`Duration = "0:02:00"`,
		`ScenEdit_CurrentTime() + ((2*60)-1)*60)`,
		`local file_path = "configs/scen_has_ended.txt"`,
		`Command_SaveScen("scen/scenario.save")`,
		`os.date('%d/%m/%Y %H:%M:%S'`,
	}
	for _, want := range wants {
		if !strings.Contains(out, want) {
			t.Errorf("script missing %q", want)
		}
	}

	if got := strings.Count(out, "unitname ='sam'"); got != 3 {
		t.Errorf("expected 3 SAM units, got %d", got)
	}
}

func TestRenderSectionOrder(t *testing.T) {
	out := Render(sampleInstance(), DefaultEngine())

	markers := []string{
		"Tool_BuildBlankScenario()",
		"local endTime",
		"mark_scenario_started()",
		`ScenEdit_AddSide({side = "attacker_side"})`,
		`ScenEdit_SetSidePosture("target_side", "attacker_side", "H")`,
		`unitname ="shooter"`,
		`unitname ="target_ammo"`,
		"unitname ='sam'",
		"Trigger_Target_Ammo_Destroyed_Points",
		"Command_SaveScen",
		"function mark_scenario_ended()",
		`type="ScenEnded"`,
	}

	last := -1
	for _, m := range markers {
		idx := strings.Index(out, m)
		if idx < 0 {
			t.Fatalf("missing %q", m)
		}
		if idx <= last {
			t.Errorf("%q is out of order", m)
		}
		last = idx
	}
}

func TestRenderEscapesEnginePaths(t *testing.T) {
	engine := DefaultEngine()
	engine.EndSignalPath = `C:\cmo\configs\"ended".txt`
	out := Render(sampleInstance(), engine)

	want := `local file_path = "C:\\cmo\\configs\\\"ended\".txt"`
	if !strings.Contains(out, want) {
		t.Errorf("expected escaped path %s", want)
	}
}

func TestEngineValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(e *Engine)
		hasErr bool
	}{
		{"defaults", func(e *Engine) {}, false},
		{"missing signal path", func(e *Engine) { e.EndSignalPath = "" }, true},
		{"missing save path", func(e *Engine) { e.SavePath = "" }, true},
		{"zero time limit", func(e *Engine) { e.TimeLimitHours = 0 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := DefaultEngine()
			tt.mutate(&e)
			if err := e.Validate(); (err != nil) != tt.hasErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.hasErr)
			}
		})
	}
}

func TestWriterRecord(t *testing.T) {
	layout := corpus.NewLayout(t.TempDir())
	w := NewWriter(layout, DefaultEngine())
	inst := sampleInstance()

	if err := w.Record(inst); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	path := layout.ScriptPath(scenario.SplitValidate, "Scenario_1", 3)
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("script not written at %s: %v", path, err)
	}
	if string(data) != Render(inst, DefaultEngine()) {
		t.Error("file contents differ from Render output")
	}
	if w.Written() != 1 {
		t.Errorf("expected 1 written, got %d", w.Written())
	}
}
