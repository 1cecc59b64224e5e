package neat

// testGenomeConfig returns a small, deterministic-ish GenomeConfig suitable
// for exercising genome construction and mutation in tests, without needing
// an on-disk Parameters file.
func testGenomeConfig(inputs, outputs, hidden int, scheme string) *GenomeConfig {
	return &GenomeConfig{
		Inputs:            inputs,
		Outputs:           outputs,
		HiddenNodes:       hidden,
		FeedForward:       true,
		ConnectionScheme:  scheme,
		ConnectionFraction: 0.5,

		ActivationDefault: "sigmoid",
		ActivationOptions: []string{"sigmoid", "tanh", "relu"},

		AggregationDefault: "sum",
		AggregationOptions: []string{"sum", "product"},

		LinkAdditionChance: 0.5,
		LinkDeletionChance: 0.5,
		LinkToggleChance:   0.5,

		NodeAdditionChance: 0.5,
		NodeDeletionChance: 0.5,

		BiasInitMean:  0.0,
		BiasInitStdev: 1.0,
		BiasMinValue:  -30,
		BiasMaxValue:  30,

		ResponseInitMean:  1.0,
		ResponseInitStdev: 0.0,
		ResponseMinValue:  -30,
		ResponseMaxValue:  30,

		WeightInitMean:  0.0,
		WeightInitStdev: 1.0,
		WeightMinValue:  -30,
		WeightMaxValue:  30,

		EnabledDefault: true,
		FrozenDefault:  false,
	}
}

func testSpeciationConfig() *SpeciationConfig {
	return &SpeciationConfig{
		CompatibilityDisjointCoefficient: 1.0,
		CompatibilityWeightCoefficient:   0.5,
		CompatibilityThreshold:           3.0,
		SpeciesFitnessFunc:               "mean",
		MaxStagnation:                    15,
		SurvivalRate:                     0.2,
		Elitism:                          1,
	}
}

func testReproductionConfig() *ReproductionConfig {
	return &ReproductionConfig{
		CrossoverRate:             0.75,
		InterSpeciesCrossoverRate: 0.001,
		ElitismThreshold:          5,
		MinSpeciesSize:            2,
	}
}
