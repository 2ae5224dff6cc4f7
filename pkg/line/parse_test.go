package line

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/sisi/pkg/errors"
)

func TestParseBlocks(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []int
		wantErr bool
	}{
		{name: "spaces", input: "2 7", want: []int{2, 7}},
		{name: "commas", input: "2,7", want: []int{2, 7}},
		{name: "commas and spaces", input: "2, 3, 2", want: []int{2, 3, 2}},
		{name: "tabs", input: "1\t1", want: []int{1, 1}},
		{name: "empty", input: "", want: []int{}},
		{name: "blank", input: "  ", want: []int{}},
		{name: "not a number", input: "2 a", wantErr: true},
		{name: "zero", input: "0", wantErr: true},
		{name: "negative", input: "3 -1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseBlocks(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseBlocks(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseBlocks(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

func TestParseBlocksErrorCodes(t *testing.T) {
	if _, err := ParseBlocks("x"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("non-numeric clue code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidInput)
	}
	if _, err := ParseBlocks("0"); !errors.Is(err, errors.ErrCodeInvalidBlock) {
		t.Errorf("zero block code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidBlock)
	}
}

func TestFormatBlocks(t *testing.T) {
	if got := FormatBlocks([]int{2, 3, 2}); got != "2 3 2" {
		t.Errorf("FormatBlocks = %q, want %q", got, "2 3 2")
	}
	if got := FormatBlocks(nil); got != "" {
		t.Errorf("FormatBlocks(nil) = %q, want empty", got)
	}
}

func TestParseKnown(t *testing.T) {
	tests := []struct {
		input   string
		want    []CellState
		wantErr bool
	}{
		{input: "XO_", want: []CellState{f, e, u}},
		{input: "#-?", want: []CellState{f, e, u}},
		{input: "1.0 ", want: []CellState{f, e, e, u}},
		{input: "", want: []CellState{}},
		{input: "X*", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseKnown(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseKnown(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if tt.wantErr {
			if !errors.Is(err, errors.ErrCodeInvalidKnown) {
				t.Errorf("ParseKnown(%q) code = %v", tt.input, errors.GetCode(err))
			}
			continue
		}
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("ParseKnown(%q) mismatch (-want +got):\n%s", tt.input, diff)
		}
	}
}

func TestCellStateString(t *testing.T) {
	tests := []struct {
		state CellState
		want  string
	}{
		{Unknown, "unknown"},
		{Empty, "empty"},
		{Filled, "filled"},
		{CellState(0), "CellState(0)"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("CellState(%d).String() = %q, want %q", int(tt.state), got, tt.want)
		}
	}
}

func TestCellStateKnown(t *testing.T) {
	if Unknown.Known() {
		t.Error("Unknown.Known() = true")
	}
	if !Empty.Known() || !Filled.Known() {
		t.Error("Empty and Filled should be known")
	}
}

func TestCellStateJSON(t *testing.T) {
	data, err := json.Marshal([]CellState{Filled, Empty, Unknown})
	if err != nil {
		t.Fatal(err)
	}
	if got, want := string(data), `["filled","empty","unknown"]`; got != want {
		t.Errorf("json.Marshal = %s, want %s", got, want)
	}

	var back []CellState
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]CellState{Filled, Empty, Unknown}, back); diff != "" {
		t.Errorf("json.Unmarshal mismatch (-want +got):\n%s", diff)
	}

	if err := json.Unmarshal([]byte(`["maybe"]`), &back); err == nil {
		t.Error("json.Unmarshal should reject unknown state names")
	}
	if _, err := json.Marshal(CellState(9)); err == nil {
		t.Error("json.Marshal should reject out-of-range states")
	}
}
