package types

// PredictionUnavailable is broadcast in place of a prediction when the
// prediction service could not produce one.
const PredictionUnavailable = "Error"

// PredictionResult is the outcome of one call to the prediction service.
// Exactly one of Prediction or Reason is meaningful.
type PredictionResult struct {
	Prediction string
	Reason     error
}

func PredictionOK(prediction string) PredictionResult {
	return PredictionResult{Prediction: prediction, Reason: nil}
}

func PredictionFailed(reason error) PredictionResult {
	return PredictionResult{Prediction: "", Reason: reason}
}

// OK reports whether the call succeeded.
func (r PredictionResult) OK() bool {
	return r.Reason == nil
}

// Value returns the prediction, or the sentinel if the call failed.
func (r PredictionResult) Value() string {
	if !r.OK() {
		return PredictionUnavailable
	}

	return r.Prediction
}
