package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/land-registry-api/pkg/errors"
)

func TestTextSanitizerClean(t *testing.T) {
	s := NewTextSanitizer()

	cases := map[string]string{
		"  plain remark ":                            "plain remark",
		"a & b":                                      "a & b",
		"<b>bold</b> text":                           "bold text",
		"&lt;script&gt;alert(1)&lt;/script&gt;ok":    "ok",
		"&amp;lt;img src=x onerror=alert(1)&amp;gt;": "",
		"&lt;3 the plot":                             "<3 the plot",
	}
	for input, want := range cases {
		assert.Equal(t, want, s.Clean(input), input)
	}
}

func TestTextSanitizerRequired(t *testing.T) {
	s := NewTextSanitizer()

	value, err := s.Required("district", " Pune ")
	require.NoError(t, err)
	assert.Equal(t, "Pune", value)

	_, err = s.Required("district", "<i></i>")
	assert.Equal(t, appErrors.ErrValidation.Code, errorCode(err))
	assert.Nil(t, s.CleanPtr("&lt;b&gt;&lt;/b&gt;"))
}
