package taxid_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/erp-workflow-api/pkg/taxid"
)

func TestCheckDigit(t *testing.T) {
	cases := map[string]byte{
		"800197268": '4',
		"900123456": '8',
		"860034313": '7',
		"12345":     '8',
	}
	for base, want := range cases {
		got, err := taxid.CheckDigit(base)
		require.NoError(t, err, base)
		assert.Equal(t, string(want), string(got), base)
	}
}

func TestValidate(t *testing.T) {
	for _, ok := range []string{"800197268-4", "800.197.268-4", "900123456", " 860034313-7 "} {
		assert.NoError(t, taxid.Validate(ok), ok)
	}
	for _, bad := range []string{"800197268-5", "", "-4", "ABC123", "900123456-", "1234567890123456"} {
		err := taxid.Validate(bad)
		assert.ErrorIs(t, err, taxid.ErrInvalidNIT, bad)
	}
}
