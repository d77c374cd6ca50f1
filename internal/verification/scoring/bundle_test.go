package scoring

import (
	"encoding/json"

	"trustgate/internal/verification/signal"
)

func (s *EvaluateSuite) TestBundleValidate() {
	s.Run("clean bundle is valid", func() {
		s.NoError(cleanBundle().Validate())
		s.NoError(Bundle{}.Validate())
	})

	cases := map[string]string{
		"unknown status":          `{"id_format":{"state":"present","value":{"status":"bogus"}}}`,
		"unknown level":           `{"document_forensics":{"state":"present","value":{"status":"fail","level":"SEVERE","forgery_signals":1}}}`,
		"negative forgery":        `{"document_forensics":{"state":"present","value":{"status":"fail","level":"HIGH","forgery_signals":-4}}}`,
		"confidence above 100":    `{"face_match":{"state":"present","value":{"status":"pass","confidence":500,"live":true}}}`,
		"negative confidence":     `{"face_match":{"state":"present","value":{"status":"fail","confidence":-7,"live":true}}}`,
		"face without confidence": `{"face_match":{"state":"present","value":{"status":"pass","live":true}}}`,
		"unknown verdict":         `{"cross_document_consistency":{"state":"present","value":{"status":"pass","verdict":"FINE"}}}`,
	}
	for name, doc := range cases {
		s.Run(name, func() {
			var b Bundle
			s.Require().NoError(json.Unmarshal([]byte(doc), &b))
			s.ErrorIs(b.Validate(), ErrMalformedBundle)
		})
	}

	s.Run("unknown lookup", func() {
		b := Bundle{Registry: signal.Lookup(42)}
		s.ErrorIs(b.Validate(), ErrMalformedBundle)
	})

	s.Run("names every bad field", func() {
		b := Bundle{
			IDFormat:  signal.Present(signal.Validation{Signal: signal.Signal{Status: "ok"}}),
			FaceMatch: signal.Present(signal.FaceMatch{Signal: signal.Signal{Status: signal.StatusPass}, Live: true}),
		}
		err := b.Validate()
		s.Require().Error(err)
		s.Contains(err.Error(), "id_format")
		s.Contains(err.Error(), "face_match")
	})
}
