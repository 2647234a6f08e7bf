package launch

import "testing"

func sampleRecords() []Record {
	return []Record{
		{Site: "KSC LC-39A", PayloadMassKg: 500, Class: 1, BoosterCategory: "FT"},
		{Site: "CCAFS LC-40", PayloadMassKg: 12000, Class: 0, BoosterCategory: "v1.1"},
		{Site: "KSC LC-39A", PayloadMassKg: 3000, Class: 1, BoosterCategory: "B4"},
	}
}

func TestNewDataset_Bounds(t *testing.T) {
	ds := NewDataset("mem", sampleRecords())

	if ds.Len() != 3 {
		t.Errorf("Len() = %d, want 3", ds.Len())
	}
	if ds.MinPayload() != 500 {
		t.Errorf("MinPayload() = %v, want 500", ds.MinPayload())
	}
	if ds.MaxPayload() != 12000 {
		t.Errorf("MaxPayload() = %v, want 12000", ds.MaxPayload())
	}

	sites := ds.Sites()
	if len(sites) != 2 || sites[0] != "CCAFS LC-40" || sites[1] != "KSC LC-39A" {
		t.Errorf("Sites() = %v, want sorted [CCAFS LC-40 KSC LC-39A]", sites)
	}

	cats := ds.BoosterCategories()
	if len(cats) != 3 || cats[0] != "B4" {
		t.Errorf("BoosterCategories() = %v", cats)
	}
}

func TestNewDataset_Empty(t *testing.T) {
	ds := NewDataset("empty", nil)
	if ds.Len() != 0 || ds.MinPayload() != 0 || ds.MaxPayload() != 0 {
		t.Errorf("empty dataset: len=%d min=%v max=%v, want zeros", ds.Len(), ds.MinPayload(), ds.MaxPayload())
	}
	if len(ds.Sites()) != 0 {
		t.Errorf("Sites() = %v, want empty", ds.Sites())
	}
}

func TestDataset_Immutable(t *testing.T) {
	src := sampleRecords()
	ds := NewDataset("mem", src)

	src[0].Site = "changed"
	if ds.Records()[0].Site != "KSC LC-39A" {
		t.Error("NewDataset() must copy the input slice")
	}

	recs := ds.Records()
	recs[1].PayloadMassKg = -1
	if ds.Records()[1].PayloadMassKg != 12000 {
		t.Error("Records() must return a copy")
	}

	sites := ds.Sites()
	sites[0] = "x"
	if ds.Sites()[0] == "x" {
		t.Error("Sites() must return a copy")
	}
}

func TestDataset_Fingerprint(t *testing.T) {
	a := NewDataset("a.csv", sampleRecords())
	b := NewDataset("b.xlsx", sampleRecords())
	if a.Fingerprint() != b.Fingerprint() {
		t.Error("same records from different sources must share a fingerprint")
	}

	other := sampleRecords()
	other[2].Class = 0
	c := NewDataset("a.csv", other)
	if a.Fingerprint() == c.Fingerprint() {
		t.Error("different records must change the fingerprint")
	}
}

func TestDataset_Each(t *testing.T) {
	ds := NewDataset("mem", sampleRecords())
	n := 0
	ds.Each(func(r Record) bool {
		n++
		return n < 2
	})
	if n != 2 {
		t.Errorf("Each() visited %d records, want 2 (stopped early)", n)
	}
}
