package script

import (
	"fmt"
	"strings"

	"github.com/picogrid/cmo-scenario-gen/pkg/geo"
	"github.com/picogrid/cmo-scenario-gen/pkg/scenario"
)

// Engine holds the CMO-side settings substituted into every script. The two
// paths are handed to the engine verbatim and are never touched locally.
type Engine struct {
	// EndSignalPath is the file the scenario writes "False" to on start and
	// "True" to when it ends.
	EndSignalPath string `yaml:"end_signal_path"`
	// SavePath is where CMO saves the built scenario.
	SavePath string `yaml:"save_path"`
	// TimeLimitHours ends the scenario one minute short of this limit.
	TimeLimitHours int `yaml:"time_limit_hours"`
}

// DefaultEngine returns the settings used when nothing is configured.
func DefaultEngine() Engine {
	return Engine{
		EndSignalPath:  "configs/scen_has_ended.txt",
		SavePath:       "scen/scenario.save",
		TimeLimitHours: 2,
	}
}

// Validate checks the engine settings.
func (e Engine) Validate() error {
	if e.EndSignalPath == "" {
		return fmt.Errorf("engine end_signal_path is required")
	}
	if e.SavePath == "" {
		return fmt.Errorf("engine save_path is required")
	}
	if e.TimeLimitHours < 1 || e.TimeLimitHours > 99 {
		return fmt.Errorf("engine time_limit_hours must be between 1 and 99")
	}
	return nil
}

// Unit names and sides referenced by the trigger block.
const (
	AttackerSide = "attacker_side"
	TargetSide   = "target_side"
	AircraftName = "shooter"
	TargetName   = "target_ammo"
	SiteName     = "sam"

	aircraftLoadout  = 33070
	aircraftAltitude = "4000 ft"
	scenarioDate     = "1.1.2030"
)

var luaEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)

func luaString(s string) string {
	return `"` + luaEscaper.Replace(s) + `"`
}

func coord(v float64) string {
	return geo.FormatFloat(v)
}

// Render produces the CMO Lua script for one instance.
func Render(inst *scenario.Instance, engine Engine) string {
	var b strings.Builder

	writeHeader(&b, engine)
	writeSides(&b)
	writeUnits(&b, inst)
	b.WriteString(triggerBlock)
	fmt.Fprintf(&b, "\nCommand_SaveScen(%s)\n", luaString(engine.SavePath))
	b.WriteString(endSignalBlock)

	return b.String()
}

func writeHeader(b *strings.Builder, engine Engine) {
	fmt.Fprintf(b, `
Tool_BuildBlankScenario()
ScenEdit_SetTime({Date= "%[1]s", Time= "00.00.00", StartDate = "%[1]s", StartTime = "00.00.00", Duration = "0:%02[2]d:00"})
local endTime = os.date('%%d/%%m/%%Y %%H:%%M:%%S', ScenEdit_CurrentTime() + ((%[2]d*60)-1)*60)
print(endTime)
local file_path = %[3]s
function mark_scenario_started()
    local file = io.open(file_path, "w")
    if file then
        file:write("False")
        file:close()
    else
        error("Failed to open file: " .. file_path)
    end
end
mark_scenario_started()
`, scenarioDate, engine.TimeLimitHours, luaString(engine.EndSignalPath))
}

func writeSides(b *strings.Builder) {
	fmt.Fprintf(b, `
ScenEdit_AddSide({side = "%[1]s"})
ScenEdit_AddSide({side = "%[2]s"})
ScenEdit_SetSideOptions({side = "%[1]s", awareness = 3})
ScenEdit_SetSidePosture("%[1]s", "%[2]s", "H")
ScenEdit_SetSidePosture("%[2]s", "%[1]s", "H")
`, AttackerSide, TargetSide)
}

func writeUnits(b *strings.Builder, inst *scenario.Instance) {
	fmt.Fprintf(b,
		"ScenEdit_AddUnit({type ='Aircraft', unitname =\"%s\", dbid =%d, side = \"%s\", Latitude =%s, Longitude =%s, Altitude = \"%s\", LoadoutID = %d})\n",
		AircraftName, inst.Jet.DBID, AttackerSide,
		coord(inst.Jet.Position.Lat), coord(inst.Jet.Position.Lon),
		aircraftAltitude, aircraftLoadout)

	fmt.Fprintf(b,
		"ScenEdit_AddUnit({type ='Facility', unitname =\"%s\", dbid =%d, side = \"%s\", Latitude =%s, Longitude =%s })\n",
		TargetName, inst.Target.DBID, TargetSide,
		coord(inst.Target.Position.Lat), coord(inst.Target.Position.Lon))

	for _, site := range inst.Sites {
		fmt.Fprintf(b,
			"ScenEdit_AddUnit({type ='Facility', unitname ='%s', dbid =%d, side = '%s', Latitude = %s, Longitude = %s })\n",
			SiteName, inst.SiteDBID, TargetSide, coord(site.Lat), coord(site.Lon))
	}
}

const triggerBlock = `
ScenEdit_SetTrigger({
    name = 'Trigger_Target_Ammo_Destroyed_Points',
    mode = 'add',
    type = 'UnitDestroyed',
    targetfilter = {
        SpecificUnitID = 'target_ammo',
        TargetSide = 'target_side'
    }
})
ScenEdit_SetTrigger({
    name = 'Trigger_Target_Ammo_Destroyed_End',
    mode = 'add',
    type = 'UnitDestroyed',
    targetfilter = {
        SpecificUnitID = 'target_ammo',
        TargetSide = 'target_side'
    }
})

ScenEdit_SetTrigger({
    name = "End_Scenario_Timelimit",
    mode = 'add',
    type = 'Time',
    Time = endTime
})

ScenEdit_SetEvent('Scenario_Reached_Timelimit', {mode = 'add'})
ScenEdit_SetEvent('Target_Ammo_Destroyed_GivePoints', {mode = 'add'})
ScenEdit_SetEvent('Target_Ammo_Destroyed_EndScenario', {mode = 'add'})

ScenEdit_SetEventTrigger('Scenario_Reached_Timelimit', {
    mode = 'add',
    description = 'End_Scenario_Timelimit'
})
ScenEdit_SetEventTrigger('Target_Ammo_Destroyed_GivePoints', {
    mode = 'add',
    description = 'Trigger_Target_Ammo_Destroyed_Points'
})
ScenEdit_SetEventTrigger('Target_Ammo_Destroyed_EndScenario', {
    mode = 'add',
    description = 'Trigger_Target_Ammo_Destroyed_End'
})

ScenEdit_SetAction({
    mode = 'add',
    description = 'give_points',
    type = 'Points',
    SideID = 'attacker_side',
    PointChange = 1
})
ScenEdit_SetAction({
    mode = 'add',
    description = 'end_with_script',
    type = 'LuaScript',
    ScriptText = 'ScenEdit_EndScenario()'
})

ScenEdit_SetEventAction('Scenario_Reached_Timelimit', {
    mode = 'add',
    description = 'end_with_script'
})
ScenEdit_SetEventAction('Target_Ammo_Destroyed_GivePoints', {
    mode = 'add',
    description = 'give_points'
})
ScenEdit_SetEventAction('Target_Ammo_Destroyed_EndScenario', {
    mode = 'add',
    description = 'end_with_script'
})
`

const endSignalBlock = `function mark_scenario_ended()
    local file = io.open(file_path, "w")
    if file then
        file:write("True")
        file:close()
    else
        error("Failed to open file: " .. file_path)
    end
end

ScenEdit_SetTrigger({name = 'Game_Ended_trigger', mode = 'add', type="ScenEnded"})
ScenEdit_SetEvent('Game_ended_event',{mode = 'add'})
ScenEdit_SetEventTrigger('Game_ended_event',{mode = 'add', description = 'Game_Ended_trigger'})
ScenEdit_SetAction({mode='add', name="end_game_act", type="LuaScript", ScriptText = "mark_scenario_ended()"})
ScenEdit_SetEventAction('Game_ended_event', {mode = 'add', description = 'end_game_act'})
`
