package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDerivePIIStatus(t *testing.T) {
	tests := []struct {
		name     string
		dob, ssn bool
		fullName bool
		want     PIIStatus
	}{
		{"all three present", true, true, true, PIIComplete},
		{"dob only", true, false, false, PIIIncomplete},
		{"ssn only", false, true, false, PIIIncomplete},
		{"full name only", false, false, true, PIIIncomplete},
		{"two of three", true, true, false, PIIIncomplete},
		{"dob and name", true, false, true, PIIIncomplete},
		{"none present", false, false, false, PIIMissing},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DerivePIIStatus(tt.dob, tt.ssn, tt.fullName))
		})
	}
}
