package metadata

import "testing"

func TestIsFillFloat(t *testing.T) {
	tests := []struct {
		value float64
		want  bool
	}{
		{FillFloat, true},
		{-3333.000001, true},
		{-3333.1, false},
		{0, false},
		{-9999, false},
	}
	for _, tc := range tests {
		if got := IsFillFloat(tc.value); got != tc.want {
			t.Errorf("IsFillFloat(%v) = %v, want %v", tc.value, got, tc.want)
		}
	}
}

func TestIsFillString(t *testing.T) {
	if !IsFillString("") || !IsFillString(FillString) {
		t.Error("empty and sentinel strings should both read as absent")
	}
	if IsFillString("USGS/EROS") {
		t.Error("real value misread as absent")
	}
}

func TestParseDataType(t *testing.T) {
	for _, dt := range allDataTypes {
		got, err := ParseDataType(string(dt))
		if err != nil || got != dt {
			t.Errorf("ParseDataType(%s) = %v, %v", dt, got, err)
		}
	}
	if _, err := ParseDataType("INT64"); err == nil {
		t.Error("expected error for INT64")
	}
	if DataType("COMPLEX64").Valid() {
		t.Error("COMPLEX64 should not validate")
	}
}
