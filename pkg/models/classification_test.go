package models

import (
	"encoding/json"
	"errors"
	"math/big"
	"strings"
	"testing"
	"time"
)

func TestResultValue_String(t *testing.T) {
	tests := []struct {
		name   string
		value  ResultValue
		want   string
		failed bool
	}{
		{"absent", AbsentValue(errors.New("boom")), "", true},
		{"integer", IntegerValue(big.NewInt(1)), "1", false},
		{"negative integer", IntegerValue(big.NewInt(-7)), "-7", false},
		{"integer beyond int64", IntegerValue(hugeAnswer()), "123456789012345678901234567890", false},
		{"text", TextValue("a reporter at a desk"), "a reporter at a desk", false},
		{"unparseable", UnparseableValue("NaN (n)", errors.New("bad")), "NaN (n)", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.value.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
			if got := tt.value.Failed(); got != tt.failed {
				t.Errorf("Failed() = %v, want %v", got, tt.failed)
			}
		})
	}
}

func TestNewClassificationResponse(t *testing.T) {
	result := ClassificationResult{
		Filename: "photo.jpg",
		Value:    IntegerValue(big.NewInt(1)),
		Elapsed:  1500 * time.Millisecond,
	}

	resp := NewClassificationResponse("id-1", "gpt-4o", result)
	if resp.ModelEval != "1" || resp.Kind != ResultInteger {
		t.Errorf("Unexpected response: %+v", resp)
	}
	if resp.Integer == nil || resp.Integer.Int64() != 1 {
		t.Errorf("Expected integer pointer to 1, got %v", resp.Integer)
	}
	if resp.TimeSeconds != 1.5 {
		t.Errorf("Expected 1.5s, got %f", resp.TimeSeconds)
	}
	if resp.Error != "" {
		t.Errorf("Expected no error, got %s", resp.Error)
	}

	failed := NewClassificationResponse("id-2", "gpt-4o", ClassificationResult{
		Filename: "b.jpg",
		Value:    AbsentValue(errors.New("connection refused")),
	})
	if failed.Integer != nil || failed.Error != "connection refused" || failed.Kind != ResultAbsent {
		t.Errorf("Unexpected failed response: %+v", failed)
	}
}

func hugeAnswer() *big.Int {
	n, _ := new(big.Int).SetString("123456789012345678901234567890", 10)
	return n
}

func TestClassificationResponse_LargeIntegerJSON(t *testing.T) {
	resp := NewClassificationResponse("id-3", "gpt-4o", ClassificationResult{
		Filename: "c.jpg",
		Value:    IntegerValue(hugeAnswer()),
	})
	data, err := json.Marshal(resp)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"integer":123456789012345678901234567890`) {
		t.Errorf("Expected exact integer in JSON, got %s", data)
	}
}

func TestNewRunID_Unique(t *testing.T) {
	if NewRunID() == NewRunID() {
		t.Error("Expected distinct run IDs")
	}
}
