package utils

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"golang.org/x/term"

	"github.com/picogrid/cmo-scenario-gen/pkg/geo"
	"github.com/picogrid/cmo-scenario-gen/pkg/scenario"
)

// SkipPromptsEnv disables every prompt when set to "true".
const SkipPromptsEnv = "SCENGEN_SKIP_PROMPTS"

const envPrefix = "SCENGEN_"

// Interactive reports whether prompts may be shown: stdin must be a terminal
// and prompts must not be disabled through the environment.
func Interactive() bool {
	if os.Getenv(SkipPromptsEnv) == "true" {
		return false
	}
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// PromptForParameters resolves every shape parameter not already present in
// preset. Outside a terminal the SCENGEN_<NAME> variable or the declared
// default is used; inside one the user is asked, with those as the default.
func PromptForParameters(params []scenario.Parameter, preset map[string]interface{}) (map[string]interface{}, error) {
	result := make(map[string]interface{}, len(params))
	for k, v := range preset {
		result[k] = v
	}

	interactive := Interactive()
	for _, param := range params {
		if _, ok := result[param.Name]; ok {
			continue
		}
		value, err := promptForParameter(param, interactive)
		if err != nil {
			return nil, fmt.Errorf("failed to get %s: %w", param.Name, err)
		}
		if value != nil {
			result[param.Name] = value
		}
	}

	return result, nil
}

// promptForParameter resolves a single parameter
func promptForParameter(param scenario.Parameter, interactive bool) (interface{}, error) {
	envKey := envPrefix + strings.ToUpper(param.Name)
	if envValue := os.Getenv(envKey); envValue != "" {
		parsed, err := parseValue(envValue, param)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", envKey, err)
		}
		if !interactive {
			return parsed, nil
		}
		param.Default = parsed
	}

	if !interactive {
		if param.Default == nil && param.Required {
			return nil, fmt.Errorf("required parameter %s not provided and no default available", param.Name)
		}
		return param.Default, nil
	}

	switch param.Type {
	case "integer", "float":
		return promptNumber(param)
	case "string":
		return promptString(param)
	case "boolean":
		return promptBoolean(param)
	default:
		return nil, fmt.Errorf("unsupported parameter type: %s", param.Type)
	}
}

// parseValue parses a textual value according to the parameter type and range
func parseValue(value string, param scenario.Parameter) (interface{}, error) {
	switch param.Type {
	case "integer":
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return nil, fmt.Errorf("invalid integer: %w", err)
		}
		return n, checkRange(float64(n), param)
	case "float":
		f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number: %w", err)
		}
		return f, checkRange(f, param)
	case "string":
		if len(param.Options) > 0 && !contains(param.Options, value) {
			return nil, fmt.Errorf("value must be one of %v", param.Options)
		}
		return value, nil
	case "boolean":
		return strconv.ParseBool(value)
	default:
		return nil, fmt.Errorf("unsupported parameter type: %s", param.Type)
	}
}

func checkRange(v float64, param scenario.Parameter) error {
	if param.Min != nil {
		if minRange := toFloat64(param.Min); v < minRange {
			return fmt.Errorf("value must be at least %g", minRange)
		}
	}
	if param.Max != nil {
		if maxRange := toFloat64(param.Max); v > maxRange {
			return fmt.Errorf("value must be at most %g", maxRange)
		}
	}
	return nil
}

func promptNumber(param scenario.Parameter) (interface{}, error) {
	defaultStr := ""
	if param.Default != nil {
		defaultStr = fmt.Sprintf("%v", param.Default)
	}

	prompt := &survey.Input{
		Message: param.Description,
		Default: defaultStr,
	}

	var result string
	validator := survey.ComposeValidators(survey.Required, func(val interface{}) error {
		_, err := parseValue(val.(string), param)
		return err
	})
	if err := survey.AskOne(prompt, &result, survey.WithValidator(validator)); err != nil {
		return nil, err
	}

	return parseValue(result, param)
}

func promptString(param scenario.Parameter) (string, error) {
	defaultStr := ""
	if param.Default != nil {
		defaultStr = fmt.Sprintf("%v", param.Default)
	}

	// If options are provided, use a select prompt
	if len(param.Options) > 0 {
		prompt := &survey.Select{
			Message: param.Description,
			Options: param.Options,
		}
		if contains(param.Options, defaultStr) {
			prompt.Default = defaultStr
		}

		var result string
		if err := survey.AskOne(prompt, &result); err != nil {
			return "", err
		}
		return result, nil
	}

	prompt := &survey.Input{
		Message: param.Description,
		Default: defaultStr,
	}

	var result string
	var opts []survey.AskOpt
	if param.Required {
		opts = append(opts, survey.WithValidator(survey.Required))
	}
	if err := survey.AskOne(prompt, &result, opts...); err != nil {
		return "", err
	}

	return result, nil
}

func promptBoolean(param scenario.Parameter) (bool, error) {
	defaultBool := false
	switch v := param.Default.(type) {
	case bool:
		defaultBool = v
	case string:
		defaultBool = v == "true" || v == "yes" || v == "1"
	}

	var result bool
	if err := survey.AskOne(&survey.Confirm{Message: param.Description, Default: defaultBool}, &result); err != nil {
		return false, err
	}
	return result, nil
}

// SelectShape asks the user to pick one of the registered shapes.
func SelectShape(gens []scenario.Generator) (scenario.Generator, error) {
	if len(gens) == 0 {
		return nil, fmt.Errorf("no shapes registered")
	}

	options := make([]string, len(gens))
	for i, g := range gens {
		options[i] = fmt.Sprintf("%s (%s)", g.Name(), g.Tag())
	}

	var idx int
	prompt := &survey.Select{
		Message: "Select a scenario shape:",
		Options: options,
		Description: func(_ string, index int) string {
			return gens[index].Description()
		},
	}
	if err := survey.AskOne(prompt, &idx); err != nil {
		return nil, err
	}
	return gens[idx], nil
}

// Confirm asks a yes/no question. Outside a terminal it returns def.
func Confirm(message string, def bool) (bool, error) {
	if !Interactive() {
		return def, nil
	}
	result := def
	if err := survey.AskOne(&survey.Confirm{Message: message, Default: def}, &result); err != nil {
		return false, err
	}
	return result, nil
}

// PromptZone asks for the bounds of a new zone. Name may be preset.
func PromptZone(name string) (geo.Zone, error) {
	answers := struct {
		Name   string
		LatMin string
		LatMax string
		LonMin string
		LonMax string
	}{Name: name}

	number := func(val interface{}) error {
		_, err := strconv.ParseFloat(strings.TrimSpace(val.(string)), 64)
		return err
	}

	var questions []*survey.Question
	if name == "" {
		questions = append(questions, &survey.Question{
			Name:     "name",
			Prompt:   &survey.Input{Message: "Zone name:"},
			Validate: survey.Required,
		})
	}
	questions = append(questions,
		&survey.Question{Name: "latmin", Prompt: &survey.Input{Message: "Minimum latitude:"}, Validate: number},
		&survey.Question{Name: "latmax", Prompt: &survey.Input{Message: "Maximum latitude:"}, Validate: number},
		&survey.Question{Name: "lonmin", Prompt: &survey.Input{Message: "Minimum longitude:"}, Validate: number},
		&survey.Question{Name: "lonmax", Prompt: &survey.Input{Message: "Maximum longitude:"}, Validate: number},
	)

	if err := survey.Ask(questions, &answers); err != nil {
		return geo.Zone{}, err
	}

	zone := geo.Zone{Name: answers.Name}
	for _, f := range []struct {
		text string
		dst  *float64
	}{
		{answers.LatMin, &zone.LatMin},
		{answers.LatMax, &zone.LatMax},
		{answers.LonMin, &zone.LonMin},
		{answers.LonMax, &zone.LonMax},
	} {
		v, err := strconv.ParseFloat(strings.TrimSpace(f.text), 64)
		if err != nil {
			return geo.Zone{}, fmt.Errorf("invalid bound: %w", err)
		}
		*f.dst = v
	}

	return zone, zone.Validate()
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}

func toFloat64(v interface{}) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case int:
		return float64(val)
	case string:
		f, _ := strconv.ParseFloat(val, 64)
		return f
	default:
		return 0
	}
}
