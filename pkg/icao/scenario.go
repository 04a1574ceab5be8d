package icao

import (
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/grazvfr/icaovfr/pkg/util"
)

// State describes one node of a scenario's dialog graph: the slots
// required and optionally expected to be present, the next state(s) to
// advance to once they are, the ATC phrase template(s) to render from
// them, and whether a readback is required before advancing.
type State struct {
	Name             string
	RequiredSlots    []string
	OptionalSlots    []string
	NextStates       []string
	ATCTemplates     []string
	ReadbackRequired bool
	ReadbackSlots    []string
}

// Scenario is a named collection of States forming a directed dialog
// graph.
type Scenario map[string]State

var (
	scenariosMu sync.RWMutex
	scenarios   = map[string]Scenario{}
	initOnce    sync.Once
)

// Init registers the built-in graz_vfr_sector_e scenario. It is called
// automatically by GetState/RegisterScenario the first time either is
// used, matching the lazy sync.Once init pattern used elsewhere in
// this codebase's ancestry for package-level registries.
func Init() {
	initOnce.Do(func() {
		scenariosMu.Lock()
		defer scenariosMu.Unlock()
		scenarios["graz_vfr_sector_e"] = grazVFRSectorE
	})
}

// RegisterScenario adds or overwrites a scenario definition. Used both
// by LoadScenarioFile and directly by callers that build a Scenario in
// Go.
func RegisterScenario(name string, s Scenario) {
	Init()
	scenariosMu.Lock()
	defer scenariosMu.Unlock()
	scenarios[name] = s
}

// GetState looks up a state within a scenario, returning ok=false if
// either the scenario or the state within it is unknown.
func GetState(scenarioName, stateName string) (State, bool) {
	Init()
	scenariosMu.RLock()
	defer scenariosMu.RUnlock()
	scenario, ok := scenarios[scenarioName]
	if !ok {
		return State{}, false
	}
	state, ok := scenario[stateName]
	return state, ok
}

// yamlScenarioFile is the on-disk shape accepted by LoadScenarioFile: a
// map from scenario name to a map from state name to its definition.
type yamlScenarioFile map[string]map[string]struct {
	RequiredSlots    []string `yaml:"required_slots"`
	OptionalSlots    []string `yaml:"optional_slots"`
	NextStates       []string `yaml:"next_states"`
	ATCTemplates     []string `yaml:"atc_templates"`
	ReadbackRequired bool     `yaml:"readback_required"`
	ReadbackSlots    []string `yaml:"readback_slots"`
}

// LoadScenarioFile reads supplementary scenario definitions from a
// YAML file and registers each one, so a deployment can add training
// scenarios beyond graz_vfr_sector_e without a rebuild. Malformed YAML
// is returned as a parse error; a state with no atc_templates is
// reported through an ErrorLogger rather than silently accepted. An
// empty next_states is not checked, since a terminal state has none.
func LoadScenarioFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read scenario file: %w", err)
	}

	var file yamlScenarioFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parse scenario file %s: %w", path, err)
	}

	errs := &util.ErrorLogger{}
	for name, states := range file {
		errs.Push(name)
		scenario := Scenario{}
		for stateName, def := range states {
			errs.Push(stateName)
			if len(def.ATCTemplates) == 0 {
				errs.ErrorString("state has no atc_templates")
			}
			scenario[stateName] = State{
				Name:             stateName,
				RequiredSlots:    def.RequiredSlots,
				OptionalSlots:    def.OptionalSlots,
				NextStates:       def.NextStates,
				ATCTemplates:     def.ATCTemplates,
				ReadbackRequired: def.ReadbackRequired,
				ReadbackSlots:    def.ReadbackSlots,
			}
			errs.Pop()
		}
		errs.Pop()
		RegisterScenario(name, scenario)
	}

	if errs.HaveErrors() {
		return fmt.Errorf("invalid scenario file %s:\n%s", path, errs.String())
	}
	return nil
}

// grazVFRSectorE is the built-in training scenario: an aircraft's
// radio progression from initial contact through taxi, departure, and
// frequency change in Graz's VFR sector E.
var grazVFRSectorE = Scenario{
	"initial_call": {
		Name:          "initial_call",
		RequiredSlots: []string{"callsign"},
		NextStates:    []string{"taxi_request"},
		ATCTemplates:  []string{"{callsign}, Graz Tower"},
	},
	"taxi_request": {
		Name:          "taxi_request",
		RequiredSlots: []string{"callsign", "position"},
		OptionalSlots: []string{"qnh", "taxiway"},
		NextStates:    []string{"taxi_clearance"},
		ATCTemplates:  []string{"Taxi to holding point runway {runway}, via {taxiway}, QNH {qnh}"},
	},
	"taxi_clearance": {
		Name:             "taxi_clearance",
		RequiredSlots:    []string{"callsign", "runway", "qnh"},
		OptionalSlots:    []string{"taxiway"},
		NextStates:       []string{"intermediate_hold"},
		ATCTemplates:     []string{"Hold at intermediate stop {holding_point}, give way to {traffic}"},
		ReadbackRequired: true,
		ReadbackSlots:    []string{"runway", "qnh", "holding_point"},
	},
	"intermediate_hold": {
		Name:          "intermediate_hold",
		RequiredSlots: []string{"callsign", "holding_point"},
		NextStates:    []string{"taxi_continue"},
		ATCTemplates:  []string{"Continue taxi to holding point {holding_point}"},
	},
	"taxi_continue": {
		Name:          "taxi_continue",
		RequiredSlots: []string{"callsign", "holding_point"},
		OptionalSlots: []string{"taxiway"},
		NextStates:    []string{"departure_instructions"},
		ATCTemplates: []string{
			"Leave the control zone via VFR sector {sector}, {altitude} or below, " +
				"right turn after departure, report ready for departure",
		},
	},
	"departure_instructions": {
		Name:             "departure_instructions",
		RequiredSlots:    []string{"callsign", "sector", "altitude"},
		OptionalSlots:    []string{"runway"},
		NextStates:       []string{"lineup_wait"},
		ATCTemplates:     []string{"Line up runway {runway} and wait"},
		ReadbackRequired: true,
		ReadbackSlots:    []string{"sector", "altitude", "runway"},
	},
	"lineup_wait": {
		Name:             "lineup_wait",
		RequiredSlots:    []string{"callsign", "runway"},
		NextStates:       []string{"takeoff_clearance"},
		ATCTemplates:     []string{"Wind {wind}, runway {runway}, cleared for takeoff"},
		ReadbackRequired: true,
		ReadbackSlots:    []string{"runway", "wind"},
	},
	"takeoff_clearance": {
		Name:             "takeoff_clearance",
		RequiredSlots:    []string{"callsign", "runway", "wind"},
		NextStates:       []string{"airborne_time"},
		ATCTemplates:     []string{"Airborne time {time}, report leaving sector {sector}"},
		ReadbackRequired: true,
		ReadbackSlots:    []string{"runway", "wind"},
	},
	"airborne_time": {
		Name:          "airborne_time",
		RequiredSlots: []string{"callsign", "time", "sector"},
		OptionalSlots: []string{"altitude"},
		NextStates:    []string{"qnh_update"},
		ATCTemplates:  []string{"New QNH {qnh}"},
	},
	"qnh_update": {
		Name:             "qnh_update",
		RequiredSlots:    []string{"callsign", "qnh"},
		NextStates:       []string{"leave_sector"},
		ATCTemplates:     []string{"Report leaving sector {sector}"},
		ReadbackRequired: true,
		ReadbackSlots:    []string{"qnh"},
	},
	"leave_sector": {
		Name:          "leave_sector",
		RequiredSlots: []string{"callsign", "sector", "altitude"},
		OptionalSlots: []string{"time"},
		NextStates:    []string{"frequency_change"},
		ATCTemplates:  []string{"Approved to leave the frequency"},
	},
	"frequency_change": {
		Name:          "frequency_change",
		RequiredSlots: []string{"callsign"},
		NextStates:    []string{"end"},
		ATCTemplates:  []string{"Frequency change approved"},
	},
	"end": {
		Name:          "end",
		RequiredSlots: []string{},
		NextStates:    []string{},
		ATCTemplates:  []string{"End of scenario"},
	},
}
