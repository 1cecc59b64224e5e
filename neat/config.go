package neat

import (
	"reflect"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/ini.v1"
)

// Config stores every tunable parameter for a run, loaded from an INI file
// laid out the way neat-proc's Parameters dataclasses are: one section per
// concern (NEATParameters, GenomeParameters, SpeciationParameters,
// EvaluationParameters, ReproductionParameters).
type Config struct {
	Neat         NeatConfig
	Genome       GenomeConfig
	Speciation   SpeciationConfig
	Evaluation   EvaluationConfig
	Reproduction ReproductionConfig
}

// NeatConfig holds the top-level population parameters.
type NeatConfig struct {
	Population        int  `ini:"population"`
	ResetOnExtinction bool `ini:"reset_on_extinction"`
}

// GenomeConfig holds parameters governing genome structure and mutation.
type GenomeConfig struct {
	Inputs                         int    `ini:"number_of_inputs"`
	Outputs                        int    `ini:"number_of_outputs"`
	HiddenNodes                    int    `ini:"number_of_hidden_nodes"`
	FeedForward                    bool    `ini:"feed_forward"`
	ConnectionScheme               string  `ini:"connection_scheme"`
	ConnectionFraction             float64 `ini:"connection_fraction"`
	AlternativeStructuralMutations bool    `ini:"alternative_structural_mutations"`

	ActivationDefault        string   `ini:"activation_default"`
	ActivationOptions        []string `ini:"activation_options" delim:","`
	ActivationMutationChance float64  `ini:"activation_mutation_chance"`

	AggregationDefault        string   `ini:"aggregation_default"`
	AggregationOptions        []string `ini:"aggregation_options" delim:","`
	AggregationMutationChance float64  `ini:"aggregation_mutation_chance"`

	// Structural mutation gates. LinkMutationChance/NodeMutationChance are
	// accepted and validated for config round-trip fidelity but, matching
	// neat-proc, the addition/deletion/toggle chances below are what the
	// mutation pipeline actually rolls against.
	LinkMutationChance float64 `ini:"link_mutation_chance"`
	LinkAdditionChance float64 `ini:"link_addition_chance"`
	LinkDeletionChance float64 `ini:"link_deletion_chance"`
	LinkToggleChance   float64 `ini:"link_toggle_chance"`

	NodeMutationChance float64 `ini:"node_mutation_chance"`
	NodeAdditionChance float64 `ini:"node_addition_chance"`
	NodeDeletionChance float64 `ini:"node_deletion_chance"`

	BiasInitMean       float64 `ini:"bias_init_mean"`
	BiasInitStdev      float64 `ini:"bias_init_stdev"`
	BiasMinValue       float64 `ini:"bias_min_value"`
	BiasMaxValue       float64 `ini:"bias_max_value"`
	BiasMutationChance float64 `ini:"bias_mutation_chance"`
	BiasReplaceChance  float64 `ini:"bias_replace_chance"`
	BiasMutationPower  float64 `ini:"bias_mutation_power"`

	ResponseInitMean       float64 `ini:"response_init_mean"`
	ResponseInitStdev      float64 `ini:"response_init_stdev"`
	ResponseMinValue       float64 `ini:"response_min_value"`
	ResponseMaxValue       float64 `ini:"response_max_value"`
	ResponseMutationChance float64 `ini:"response_mutation_chance"`
	ResponseReplaceChance  float64 `ini:"response_replace_chance"`
	ResponseMutationPower  float64 `ini:"response_mutation_power"`

	WeightInitMean          float64 `ini:"weight_init_mean"`
	WeightInitStdev         float64 `ini:"weight_init_stdev"`
	WeightMinValue          float64 `ini:"weight_min_value"`
	WeightMaxValue          float64 `ini:"weight_max_value"`
	WeightMutationChance    float64 `ini:"weight_mutation_chance"`
	WeightSevereMutationChance float64 `ini:"weight_severe_mutation_chance"`
	WeightReplaceChance     float64 `ini:"weight_replace_chance"`
	WeightMutationPower     float64 `ini:"weight_mutation_power"`

	EnabledDefault        bool    `ini:"enabled_default"`
	EnabledMutationChance float64 `ini:"enabled_mutation_chance"`

	FrozenDefault        bool    `ini:"frozen_default"`
	FrozenMutationChance float64 `ini:"frozen_mutation_chance"`
}

// SpeciationConfig holds parameters governing compatibility distance,
// species fitness, and stagnation.
type SpeciationConfig struct {
	CompatibilityDisjointCoefficient float64 `ini:"compatibility_disjoint_coefficient"`
	CompatibilityWeightCoefficient   float64 `ini:"compatibility_weight_coefficient"`
	CompatibilityThreshold           float64 `ini:"compatibility_threshold"`
	SpeciesFitnessFunc               string  `ini:"species_fitness_func"`
	MaxStagnation                    int     `ini:"max_stagnation"`
	SurvivalRate                     float64 `ini:"survival_rate"`
	Elitism                          int     `ini:"elitism"`
}

// EvaluationConfig holds parameters governing the fitness termination
// condition.
type EvaluationConfig struct {
	FitnessThreshold float64 `ini:"fitness_threshold"`
	FitnessCriterion string  `ini:"fitness_criterion"`
	LossFunction     string  `ini:"loss_function"`
}

// ReproductionConfig holds parameters specific to offspring allocation and
// mating, beyond what SpeciationConfig already covers (elitism/stagnation
// are shared with speciation, matching neat-proc's ReproductionParams
// overlapping SpeciationParams).
type ReproductionConfig struct {
	CrossoverRate             float64 `ini:"crossover_rate"`
	InterSpeciesCrossoverRate float64 `ini:"inter_species_crossover_rate"`
	ElitismThreshold          int     `ini:"elitism_threshold"`
	MinSpeciesSize            int     `ini:"min_species_size"`
}

// LoadConfig loads and validates configuration parameters from an INI file.
func LoadConfig(filePath string) (*Config, error) {
	cfg, err := ini.LoadSources(ini.LoadOptions{
		IgnoreInlineComment:         true,
		UnescapeValueCommentSymbols: true,
	}, filePath)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load config file %q", filePath)
	}

	config := &Config{}

	sections := []struct {
		name string
		dest interface{}
	}{
		{"NEATParameters", &config.Neat},
		{"GenomeParameters", &config.Genome},
		{"SpeciationParameters", &config.Speciation},
		{"EvaluationParameters", &config.Evaluation},
		{"ReproductionParameters", &config.Reproduction},
	}

	for _, s := range sections {
		section, err := cfg.GetSection(s.name)
		if err != nil {
			return nil, newConfigError(s.name, "", err)
		}
		if err := validateSectionKeys(section, s.name, s.dest); err != nil {
			return nil, err
		}
		if err := section.MapTo(s.dest); err != nil {
			return nil, newConfigError(s.name, "", err)
		}
	}

	// ini.v1's MapTo sometimes leaves inline-comment residue on bare string
	// keys when a value isn't quoted; clean the handful we read verbatim.
	config.Genome.ConnectionScheme = cleanIniString(config.Genome.ConnectionScheme)
	config.Genome.ActivationDefault = cleanIniString(config.Genome.ActivationDefault)
	config.Genome.AggregationDefault = cleanIniString(config.Genome.AggregationDefault)
	config.Evaluation.FitnessCriterion = cleanIniString(config.Evaluation.FitnessCriterion)
	config.Evaluation.LossFunction = cleanIniString(config.Evaluation.LossFunction)
	config.Speciation.SpeciesFitnessFunc = cleanIniString(config.Speciation.SpeciesFitnessFunc)
	for i, opt := range config.Genome.ActivationOptions {
		config.Genome.ActivationOptions[i] = strings.TrimSpace(cleanIniString(opt))
	}
	for i, opt := range config.Genome.AggregationOptions {
		config.Genome.AggregationOptions[i] = strings.TrimSpace(cleanIniString(opt))
	}

	if config.Reproduction.MinSpeciesSize == 0 {
		config.Reproduction.MinSpeciesSize = 1
	}
	if config.Genome.ConnectionScheme == "partial" && config.Genome.ConnectionFraction <= 0 {
		config.Genome.ConnectionFraction = 0.5
	}

	if err := validateConfig(config); err != nil {
		return nil, err
	}

	return config, nil
}

func validateConfig(config *Config) error {
	g := &config.Genome

	if g.Inputs <= 0 {
		return newConfigErrorf("GenomeParameters", "number_of_inputs", "must be positive, got %d", g.Inputs)
	}
	if g.Outputs <= 0 {
		return newConfigErrorf("GenomeParameters", "number_of_outputs", "must be positive, got %d", g.Outputs)
	}
	if g.HiddenNodes < 0 {
		return newConfigErrorf("GenomeParameters", "number_of_hidden_nodes", "cannot be negative, got %d", g.HiddenNodes)
	}
	if len(g.ActivationOptions) == 0 {
		return newConfigErrorf("GenomeParameters", "activation_options", "must list at least one option")
	}
	if len(g.AggregationOptions) == 0 {
		return newConfigErrorf("GenomeParameters", "aggregation_options", "must list at least one option")
	}
	if _, err := GetActivation(g.ActivationDefault); err != nil {
		return newConfigErrorf("GenomeParameters", "activation_default", "unknown activation %q", g.ActivationDefault)
	}
	if _, err := GetAggregation(g.AggregationDefault); err != nil {
		return newConfigErrorf("GenomeParameters", "aggregation_default", "unknown aggregation %q", g.AggregationDefault)
	}
	if g.BiasMaxValue < g.BiasMinValue {
		return newConfigErrorf("GenomeParameters", "bias_max_value", "cannot be less than bias_min_value")
	}
	if g.ResponseMaxValue < g.ResponseMinValue {
		return newConfigErrorf("GenomeParameters", "response_max_value", "cannot be less than response_min_value")
	}
	if g.WeightMaxValue < g.WeightMinValue {
		return newConfigErrorf("GenomeParameters", "weight_max_value", "cannot be less than weight_min_value")
	}

	validConnectionSchemes := map[string]bool{"unconnected": true, "full": true, "partial": true}
	if !validConnectionSchemes[g.ConnectionScheme] {
		return newConfigErrorf("GenomeParameters", "connection_scheme", "invalid value %q", g.ConnectionScheme)
	}

	s := &config.Speciation
	if s.CompatibilityThreshold < 0 {
		return newConfigErrorf("SpeciationParameters", "compatibility_threshold", "cannot be negative")
	}
	if s.MaxStagnation <= 0 {
		return newConfigErrorf("SpeciationParameters", "max_stagnation", "must be positive")
	}
	if s.SurvivalRate <= 0 || s.SurvivalRate > 1 {
		return newConfigErrorf("SpeciationParameters", "survival_rate", "must be in (0, 1]")
	}
	if _, ok := StatFunctions[strings.ToLower(s.SpeciesFitnessFunc)]; !ok {
		return newConfigErrorf("SpeciationParameters", "species_fitness_func", "invalid value %q", s.SpeciesFitnessFunc)
	}

	e := &config.Evaluation
	validCriteria := map[string]bool{"max": true, "min": true, "mean": true}
	if !validCriteria[strings.ToLower(e.FitnessCriterion)] {
		return newConfigErrorf("EvaluationParameters", "fitness_criterion", "invalid value %q", e.FitnessCriterion)
	}

	r := &config.Reproduction
	if r.CrossoverRate < 0 || r.CrossoverRate > 1 {
		return newConfigErrorf("ReproductionParameters", "crossover_rate", "must be in [0, 1]")
	}
	if r.InterSpeciesCrossoverRate < 0 || r.InterSpeciesCrossoverRate > 1 {
		return newConfigErrorf("ReproductionParameters", "inter_species_crossover_rate", "must be in [0, 1]")
	}
	if r.MinSpeciesSize <= 0 {
		return newConfigErrorf("ReproductionParameters", "min_species_size", "must be positive")
	}

	return nil
}

// iniKeys returns the set of `ini`-tagged key names structPtr's type
// declares, lowercased. structPtr must be a pointer to one of the
// *Config structs above, each of whose fields carries an `ini:"..."` tag
// naming the key it's loaded from.
func iniKeys(structPtr interface{}) map[string]bool {
	t := reflect.TypeOf(structPtr).Elem()
	keys := make(map[string]bool, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag.Get("ini")
		if tag == "" || tag == "-" {
			continue
		}
		keys[strings.ToLower(tag)] = true
	}
	return keys
}

// validateSectionKeys enforces §6's "unknown keys are rejected ... missing
// required keys likewise": every key section actually holds must be one of
// structPtr's declared `ini` tags, and every declared tag must be present
// in section. Both directions return a ConfigError naming the offending
// section and key.
func validateSectionKeys(section *ini.Section, sectionName string, structPtr interface{}) error {
	declared := iniKeys(structPtr)
	for _, key := range section.Keys() {
		if name := strings.ToLower(key.Name()); !declared[name] {
			return newConfigErrorf(sectionName, key.Name(), "unknown key")
		}
	}
	for name := range declared {
		if !section.HasKey(name) {
			return newConfigErrorf(sectionName, name, "missing required key")
		}
	}
	return nil
}

// cleanIniString removes inline comments and trims whitespace from a string
// read from INI, working around ini.v1 occasionally leaving comment
// residue on bare (unquoted) string values.
func cleanIniString(s string) string {
	if idx := strings.IndexAny(s, "#;"); idx != -1 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}

// BiasAttr returns the FloatAttrSpec driving bias gene mutation/init.
func (g *GenomeConfig) BiasAttr() FloatAttrSpec {
	return FloatAttrSpec{
		InitMean: g.BiasInitMean, InitStdev: g.BiasInitStdev,
		MinValue: g.BiasMinValue, MaxValue: g.BiasMaxValue,
		MutationChance: g.BiasMutationChance, ReplaceChance: g.BiasReplaceChance,
		MutationPower: g.BiasMutationPower,
	}
}

// ResponseAttr returns the FloatAttrSpec driving response gene mutation/init.
func (g *GenomeConfig) ResponseAttr() FloatAttrSpec {
	return FloatAttrSpec{
		InitMean: g.ResponseInitMean, InitStdev: g.ResponseInitStdev,
		MinValue: g.ResponseMinValue, MaxValue: g.ResponseMaxValue,
		MutationChance: g.ResponseMutationChance, ReplaceChance: g.ResponseReplaceChance,
		MutationPower: g.ResponseMutationPower,
	}
}

// WeightAttr returns the FloatAttrSpec driving link weight mutation/init.
// WeightSevereMutationChance is folded into ReplaceChance: a "severe"
// mutation in neat-proc's config is a full redraw, the same outcome
// FloatAttrSpec.Mutate's replace branch produces.
func (g *GenomeConfig) WeightAttr() FloatAttrSpec {
	return FloatAttrSpec{
		InitMean: g.WeightInitMean, InitStdev: g.WeightInitStdev,
		MinValue: g.WeightMinValue, MaxValue: g.WeightMaxValue,
		MutationChance: g.WeightMutationChance,
		ReplaceChance:  g.WeightReplaceChance + g.WeightSevereMutationChance,
		MutationPower:  g.WeightMutationPower,
	}
}

// ActivatorAttr returns the EnumAttrSpec driving activator gene mutation/init.
func (g *GenomeConfig) ActivatorAttr() EnumAttrSpec {
	return EnumAttrSpec{Default: g.ActivationDefault, Options: g.ActivationOptions, MutationChance: g.ActivationMutationChance}
}

// AggregatorAttr returns the EnumAttrSpec driving aggregator gene mutation/init.
func (g *GenomeConfig) AggregatorAttr() EnumAttrSpec {
	return EnumAttrSpec{Default: g.AggregationDefault, Options: g.AggregationOptions, MutationChance: g.AggregationMutationChance}
}

// EnabledAttr returns the BoolAttrSpec driving link enabled-flag mutation/init.
func (g *GenomeConfig) EnabledAttr() BoolAttrSpec {
	return BoolAttrSpec{Default: g.EnabledDefault, MutationChance: g.EnabledMutationChance}
}

// FrozenAttr returns the BoolAttrSpec driving link frozen-flag mutation/init.
func (g *GenomeConfig) FrozenAttr() BoolAttrSpec {
	return BoolAttrSpec{Default: g.FrozenDefault, MutationChance: g.FrozenMutationChance}
}
