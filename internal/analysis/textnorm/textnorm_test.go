package textnorm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeEmpty(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "", Normalize(""))
	assert.Equal(t, "", Normalize("   \n\t  "))
}

func TestNormalizeWhitespaceAndPunctuation(t *testing.T) {
	t.Parallel()
	in := "Led   a team .Shipped the\n\nproduct ,fast"
	assert.Equal(t, "Led a team. Shipped the product, fast", Normalize(in))
}

func TestNormalizeAbbreviations(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"whole word", "5 yrs of Mgmt exp", "5 years of management experience"},
		{"case insensitive", "DEPT head", "Department head"},
		{"slash forms", "worked w/ engg teams", "Worked with engineering teams"},
		{"not inside words", "exported example", "Exported example"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestNormalizeMojibake(t *testing.T) {
	t.Parallel()
	got := Normalize("Companyâ€™s revenue â€“ up 20%")
	assert.Equal(t, "Company's revenue - up 20%", got)

	got = Normalize("“Owner” of the roadmap…")
	assert.Equal(t, "\"Owner\" of the roadmap...", got)
}

func TestNormalizeSentenceCasing(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "Built the api. Scaled it to 1m users.", Normalize("built the api. scaled it to 1m users."))
}

func TestNormalizeIdempotent(t *testing.T) {
	t.Parallel()
	inputs := []string{
		"",
		"led  a team of 6 ,cut costs by 30% . promoted twice",
		"Mgmt exp at Univ of Example â€“ 5 yrs",
		"plain already-normal sentence.",
		"Multi\n\nline\n\tinput w/ tabs",
	}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "input %q", in)
	}
}
