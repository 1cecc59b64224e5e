package neat

import (
	"compress/gzip"
	"encoding/gob"
	"os"

	"github.com/pkg/errors"
)

// populationSaveData holds the parts of Population that survive a
// checkpoint round-trip. Config is not included — LoadCheckpoint reloads it
// from the original Parameters file, the way the teacher's checkpoint.go
// does, so a checkpoint never pins stale tuning values.
type populationSaveData struct {
	Registry     *InnovationRegistry
	Genomes      []*Genome
	Species      *SpeciesSet
	Reproduction *Reproduction
	Generation   int
	BestGenome   *Genome
}

// SaveCheckpoint gob-encodes and gzip-compresses the population's state to
// filePath, the same pairing the teacher's SaveCheckpoint uses.
func (p *Population) SaveCheckpoint(filePath string) error {
	file, err := os.Create(filePath)
	if err != nil {
		return errors.Wrapf(err, "failed to create checkpoint file %q", filePath)
	}
	defer file.Close()

	gzWriter := gzip.NewWriter(file)
	defer gzWriter.Close()

	saveData := populationSaveData{
		Registry:     p.Registry,
		Genomes:      p.Genomes,
		Species:      p.Species,
		Reproduction: p.Reproduction,
		Generation:   p.Generation,
		BestGenome:   p.BestGenome,
	}

	if err := gob.NewEncoder(gzWriter).Encode(saveData); err != nil {
		return errors.Wrap(err, "failed to encode population checkpoint")
	}
	return gzWriter.Close()
}

// LoadCheckpoint reloads configuration from configPath and population state
// from checkpointPath, reconstructing a Population ready to resume Run.
func LoadCheckpoint(checkpointPath, configPath string) (*Population, error) {
	config, err := LoadConfig(configPath)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load config %q for checkpoint", configPath)
	}

	file, err := os.Open(checkpointPath)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open checkpoint file %q", checkpointPath)
	}
	defer file.Close()

	gzReader, err := gzip.NewReader(file)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create gzip reader for checkpoint")
	}
	defer gzReader.Close()

	var saveData populationSaveData
	if err := gob.NewDecoder(gzReader).Decode(&saveData); err != nil {
		return nil, errors.Wrap(err, "failed to decode population checkpoint")
	}

	for _, g := range saveData.Genomes {
		g.Config = &config.Genome
		g.Registry = saveData.Registry
	}
	if saveData.BestGenome != nil {
		saveData.BestGenome.Config = &config.Genome
		saveData.BestGenome.Registry = saveData.Registry
	}

	stagnation, err := NewStagnation(&config.Speciation)
	if err != nil {
		return nil, errors.Wrap(err, "failed to re-initialize stagnation from loaded config")
	}
	if saveData.Reproduction != nil {
		saveData.Reproduction.Config = &config.Reproduction
		saveData.Reproduction.Speciation = &config.Speciation
		saveData.Reproduction.Stagnation = stagnation
	}

	return &Population{
		Config:       config,
		Registry:     saveData.Registry,
		Genomes:      saveData.Genomes,
		Species:      saveData.Species,
		Reproduction: saveData.Reproduction,
		Reporter:     NewStatisticalData(),
		Logger:       DefaultLogger(),
		Generation:   saveData.Generation,
		BestGenome:   saveData.BestGenome,
	}, nil
}
