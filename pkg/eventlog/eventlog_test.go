package eventlog

import "testing"

func TestAppendAssignsSequentialNumbers(t *testing.T) {
	s, err := NewSink(nil)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	if err := s.Append("D", "deposit", map[string]int{"amount": 100}, 1000); err != nil {
		t.Fatal(err)
	}
	if err := s.Append("D", "withdraw", map[string]int{"amount": 50}, 1001); err != nil {
		t.Fatal(err)
	}
	if err := s.Append("C", "deposit", map[string]int{"amount": 10}, 1000); err != nil {
		t.Fatal(err)
	}

	recordsD, err := s.Records("D")
	if err != nil {
		t.Fatal(err)
	}
	if len(recordsD) != 2 {
		t.Fatalf("len(recordsD) = %d, want 2", len(recordsD))
	}
	if recordsD[0].Sequence != 1 || recordsD[1].Sequence != 2 {
		t.Errorf("unexpected sequence numbers: %+v", recordsD)
	}

	recordsC, err := s.Records("C")
	if err != nil {
		t.Fatal(err)
	}
	if len(recordsC) != 1 || recordsC[0].Sequence != 1 {
		t.Errorf("expected asset C to have its own sequence counter starting at 1, got %+v", recordsC)
	}
}

func TestRecordsEmptyForUnknownAsset(t *testing.T) {
	s, err := NewSink(nil)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	records, err := s.Records("nonexistent")
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 0 {
		t.Errorf("expected no records, got %d", len(records))
	}
}
