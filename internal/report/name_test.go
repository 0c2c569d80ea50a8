package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGuessCandidateName(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{name: "first line", text: "Jane Doe\nSenior Engineer\njane@example.com", want: "Jane Doe"},
		{name: "all caps", text: "JOHN SMITH\nBackend Developer", want: "John Smith"},
		{name: "labeled", text: "RESUME\nName: Ada Lovelace\nLondon", want: "Ada Lovelace"},
		{name: "skips headers", text: "Curriculum Vitae\nContact Details\nMaria Garcia Lopez\n", want: "Maria Garcia Lopez"},
		{name: "markdown heading", text: "# Rajesh Kumar\n\nGo developer", want: "Rajesh Kumar"},
		{name: "none", text: "experience: 5 years\nskills: go, sql", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GuessCandidateName(tt.text))
		})
	}
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "candidate_evaluation_Jane_Doe.pdf", FileName("Jane Doe"))
	assert.Equal(t, "candidate_evaluation_Jane_Smith.pdf", FileName("Jane Q. Smith"))
	assert.Equal(t, "candidate_evaluation_Cher.pdf", FileName("Cher"))
	assert.Equal(t, "candidate_evaluation_Candidate.pdf", FileName(""))
	assert.Equal(t, "candidate_evaluation_Candidate.pdf", FileName("Candidate"))
	assert.Equal(t, "candidate_evaluation_OBrien_Ng.pdf", FileName("O'Brien Ng!"))
}
