package validators

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type ValidatorsSuite struct {
	suite.Suite
}

func TestValidatorsSuite(t *testing.T) {
	suite.Run(t, new(ValidatorsSuite))
}

func (s *ValidatorsSuite) TestValidateIdentifierFormat() {
	s.Run("canonical identifier is valid", func() {
		res := ValidateIdentifierFormat("13-7404-000-0012345")
		s.True(res.Valid)
		s.Equal("13-7404-000-0012345", res.Normalized)
		s.Empty(res.Flags)
	})

	s.Run("alternate separators normalize to dashes", func() {
		for _, raw := range []string{"13 7404 000 0012345", "13.7404.000.0012345", "13_7404_000_0012345", " 13--7404-000-0012345 "} {
			res := ValidateIdentifierFormat(raw)
			s.True(res.Valid, raw)
			s.Equal("13-7404-000-0012345", res.Normalized, raw)
		}
	})

	s.Run("bare digit run is split by layout", func() {
		res := ValidateIdentifierFormat("1374040000012345")
		s.True(res.Valid)
		s.Equal("13-7404-000-0012345", res.Normalized)
	})

	s.Run("missing identifier is invalid", func() {
		res := ValidateIdentifierFormat("   ")
		s.False(res.Valid)
		s.Equal([]string{"identifier is missing"}, res.Flags)
	})

	s.Run("wrong layout is invalid", func() {
		res := ValidateIdentifierFormat("PWD-12345")
		s.False(res.Valid)
		s.Require().Len(res.Flags, 1)
		s.Contains(res.Flags[0], "RR-PPMM-BBB-NNNNNNN")
	})

	s.Run("unknown region code is invalid", func() {
		res := ValidateIdentifierFormat("20-7404-000-0012345")
		s.False(res.Valid)
		s.Equal([]string{"identifier has unknown region code 20"}, res.Flags)
	})

	s.Run("zero locality and sequence are both reported", func() {
		res := ValidateIdentifierFormat("13-0000-000-0000000")
		s.False(res.Valid)
		s.Equal([]string{
			"identifier has an empty locality code",
			"identifier has an empty sequence number",
		}, res.Flags)
	})
}

func (s *ValidatorsSuite) TestValidateAdministrativeDesignation() {
	s.Run("city claimed for a city", func() {
		res := ValidateAdministrativeDesignation("Makati", "City")
		s.True(res.Correct)
		s.Nil(res.Flag)
	})

	s.Run("decorated locality names resolve", func() {
		s.True(ValidateAdministrativeDesignation("City of Makati", "city").Correct)
		s.True(ValidateAdministrativeDesignation("Quezon City", "city").Correct)
		s.True(ValidateAdministrativeDesignation("Municipality of Taytay", "municipality").Correct)
	})

	s.Run("diacritics are ignored", func() {
		s.True(ValidateAdministrativeDesignation("Las Pinas", "city").Correct)
		s.True(ValidateAdministrativeDesignation("PARAÑAQUE", "City").Correct)
	})

	s.Run("city claimed for a municipality", func() {
		res := ValidateAdministrativeDesignation("Taytay", "city")
		s.False(res.Correct)
		s.Require().NotNil(res.Flag)
		s.Equal("Taytay is a municipality, not a city", *res.Flag)
	})

	s.Run("unknown locality", func() {
		res := ValidateAdministrativeDesignation("Atlantis", "city")
		s.False(res.Correct)
		s.Require().NotNil(res.Flag)
		s.Contains(*res.Flag, "not in the designation directory")
	})

	s.Run("unrecognized claim", func() {
		res := ValidateAdministrativeDesignation("Makati", "province")
		s.False(res.Correct)
		s.Require().NotNil(res.Flag)
		s.Contains(*res.Flag, "not a recognized designation")
	})

	s.Run("missing locality", func() {
		res := ValidateAdministrativeDesignation("", "city")
		s.False(res.Correct)
		s.Require().NotNil(res.Flag)
		s.Equal("locality is missing", *res.Flag)
	})

	s.Run("custom directory", func() {
		dir := NewLocalityDirectory(map[string]Designation{"Springfield": DesignationMunicipality})
		s.True(dir.Validate("springfield", "municipal").Correct)
		s.False(dir.Validate("Makati", "city").Correct)
	})
}

func (s *ValidatorsSuite) TestValidateCategoryMembership() {
	s.Run("exact member", func() {
		res := ValidateCategoryMembership("Visual Disability", DefaultTaxonomy)
		s.True(res.Valid)
		s.Require().NotNil(res.Matched)
		s.Equal("Visual Disability", *res.Matched)
		s.Nil(res.Flag)
	})

	s.Run("case and punctuation insensitive", func() {
		res := ValidateCategoryMembership("physical disability orthopedic", DefaultTaxonomy)
		s.True(res.Valid)
		s.Require().NotNil(res.Matched)
		s.Equal("Physical Disability (Orthopedic)", *res.Matched)
	})

	s.Run("diagnosis is not a category", func() {
		res := ValidateCategoryMembership("Schizophrenia", DefaultTaxonomy)
		s.False(res.Valid)
		s.Nil(res.Matched)
		s.Require().NotNil(res.Flag)
		s.Contains(*res.Flag, "Schizophrenia")
	})

	s.Run("missing category", func() {
		res := ValidateCategoryMembership("  ", DefaultTaxonomy)
		s.False(res.Valid)
		s.Require().NotNil(res.Flag)
		s.Equal("category is missing", *res.Flag)
	})

	s.Run("empty taxonomy", func() {
		res := ValidateCategoryMembership("Visual Disability", nil)
		s.False(res.Valid)
		s.Require().NotNil(res.Flag)
	})
}

func (s *ValidatorsSuite) TestFold() {
	s.Equal("dasmarinas", fold("Dasmariñas"))
	s.Equal("cancer ra 11215", fold("  Cancer (RA 11215) "))
	s.Equal("", fold("()-"))
}
