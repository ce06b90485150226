// Package internal holds helpers shared by tests.
package internal

import (
	"embed"
	"path"

	"github.com/paulmach/orb/geojson"
)

//go:embed testdata/*.geojson
var testdataFS embed.FS

// ReadTestdata returns the raw content of an embedded fixture.
func ReadTestdata(fileName string) ([]byte, error) {
	return testdataFS.ReadFile(path.Join("testdata", fileName))
}

// ReadFeatures parses an embedded fixture as a feature collection.
func ReadFeatures(fileName string) (*geojson.FeatureCollection, error) {
	data, err := ReadTestdata(fileName)
	if err != nil {
		return nil, err
	}
	return geojson.UnmarshalFeatureCollection(data)
}
