package detkit

import (
	"encoding/json"
	"testing"
)

func TestScaleFactors(t *testing.T) {

	uniform := UniformScale(2.0)

	if uniform.PerAxis() {
		t.Errorf("uniform factor reports per axis")
	}

	if uniform.Factors() != [4]float64{2, 2, 2, 2} {
		t.Errorf("expected factors [2 2 2 2], got %v", uniform.Factors())
	}

	pair := PerAxisScale(2.0, 4.0)

	if !pair.PerAxis() {
		t.Errorf("per axis factor reports uniform")
	}

	// x coordinates divide by the width ratio, y by the height ratio
	if pair.Factors() != [4]float64{4, 2, 4, 2} {
		t.Errorf("expected factors [4 2 4 2], got %v", pair.Factors())
	}
}

func TestScaleFactorJSON(t *testing.T) {

	tests := []struct {
		name     string
		factor   ScaleFactor
		expected string
	}{
		{"uniform encodes as bare number", UniformScale(2), "2"},
		{"per axis encodes as height width pair", PerAxisScale(2, 4), "[2,4]"},
	}

	for _, tc := range tests {

		data, err := json.Marshal(tc.factor)

		if err != nil {
			t.Fatalf("%s: Marshal failed: %v", tc.name, err)
		}

		if string(data) != tc.expected {
			t.Errorf("%s: expected %s, got %s", tc.name, tc.expected, data)
		}

		var decoded ScaleFactor

		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("%s: Unmarshal failed: %v", tc.name, err)
		}

		if decoded != tc.factor {
			t.Errorf("%s: expected %+v after roundtrip, got %+v",
				tc.name, tc.factor, decoded)
		}
	}

	var decoded ScaleFactor

	if err := json.Unmarshal([]byte(`"abc"`), &decoded); err == nil {
		t.Errorf("expected error for non numeric scale factor, got none")
	}
}

func TestScaleFactorString(t *testing.T) {

	if s := UniformScale(2).String(); s != "2" {
		t.Errorf("expected 2, got %s", s)
	}

	if s := PerAxisScale(2, 4).String(); s != "(height=2, width=4)" {
		t.Errorf("expected (height=2, width=4), got %s", s)
	}
}
