package usecase

const (
	// SkipReasonMalformed labels records dropped because they could not be decoded.
	SkipReasonMalformed = "malformed"

	// RunStatusOK and RunStatusFailed label finished processing runs.
	RunStatusOK     = "ok"
	RunStatusFailed = "failed"
)
