package integrity

import (
	"fmt"
	"io"
	"strings"
)

// Result is the verdict of one rule.
type Result struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Violated bool   `json:"violated"`
	Error    string `json:"error,omitempty"`
}

// Report holds the results of one Run.
type Report struct {
	Cube    string   `json:"cube"`
	Results []Result `json:"results"`
}

// Violated returns the results whose rule is broken.
func (r *Report) Violated() []Result {
	var out []Result
	for _, res := range r.Results {
		if res.Violated {
			out = append(out, res)
		}
	}
	return out
}

// Failed returns the results whose rule could not be evaluated.
func (r *Report) Failed() []Result {
	var out []Result
	for _, res := range r.Results {
		if res.Error != "" {
			out = append(out, res)
		}
	}
	return out
}

// OK reports whether every rule was evaluated and none is broken.
func (r *Report) OK() bool {
	return len(r.Violated()) == 0 && len(r.Failed()) == 0
}

// WriteText writes the report as
//
//	POPULATION
//	> True = constraint is broken
//	False Unique DataSet
//	...
func (r *Report) WriteText(w io.Writer) error {
	var b strings.Builder
	b.WriteString(strings.ToUpper(r.Cube))
	b.WriteString("\n> True = constraint is broken\n")
	for _, res := range r.Results {
		if res.Error != "" {
			fmt.Fprintf(&b, "Error %s: %s\n", res.Name, res.Error)
			continue
		}
		verdict := "False"
		if res.Violated {
			verdict = "True"
		}
		fmt.Fprintf(&b, "%s %s\n", verdict, res.Name)
	}
	_, err := io.WriteString(w, b.String())
	return err
}
