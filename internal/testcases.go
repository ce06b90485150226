package internal

import (
	"io/fs"
	"iter"
	"testing"

	"github.com/paulmach/orb/geojson"
)

// TestdataCases yields every embedded fixture parsed as a feature collection.
func TestdataCases(t *testing.T) iter.Seq2[string, *geojson.FeatureCollection] {
	return func(yield func(string, *geojson.FeatureCollection) bool) {
		t.Helper()

		names, err := fs.Glob(testdataFS, "testdata/*.geojson")
		if err != nil {
			t.Fatal(err)
		}
		for _, name := range names {
			fileData, err := fs.ReadFile(testdataFS, name)
			if err != nil {
				t.Fatal(err)
			}
			fc, err := geojson.UnmarshalFeatureCollection(fileData)
			if err != nil {
				t.Fatalf("%s: %v", name, err)
			}
			if !yield(name, fc) {
				return
			}
		}
	}
}

// MustReadFeatures is ReadFeatures failing the test on error.
func MustReadFeatures(t *testing.T, fileName string) *geojson.FeatureCollection {
	t.Helper()
	fc, err := ReadFeatures(fileName)
	if err != nil {
		t.Fatalf("ReadFeatures(%q) failed: %v", fileName, err)
	}
	return fc
}
