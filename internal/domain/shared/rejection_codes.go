package shared

// RejectionCode classifies why the engine refused an event
type RejectionCode string

const (
	RejectionInvalidTransaction   RejectionCode = "INVALID_TRANSACTION"
	RejectionDuplicateTransaction RejectionCode = "DUPLICATE_TRANSACTION"
	RejectionAccountLocked        RejectionCode = "ACCOUNT_LOCKED"
	RejectionNonPositiveAmount    RejectionCode = "NON_POSITIVE_AMOUNT"
	RejectionInsufficientFunds    RejectionCode = "INSUFFICIENT_FUNDS"
	RejectionNonExistingReference RejectionCode = "NON_EXISTING_REFERENCE"
	RejectionClientMismatch       RejectionCode = "CLIENT_MISMATCH"
	RejectionInvalidDispute       RejectionCode = "INVALID_DISPUTE"
	RejectionInvalidResolve       RejectionCode = "INVALID_RESOLVE"
	RejectionInvalidChargeback    RejectionCode = "INVALID_CHARGEBACK"

	// RejectionMalformed is used for input rows that never reached the engine
	RejectionMalformed RejectionCode = "MALFORMED"
	// RejectionUnknown is used when an error carries no code of its own
	RejectionUnknown RejectionCode = "UNKNOWN_ERROR"
)

// Coded is implemented by errors that carry a RejectionCode
type Coded interface {
	error
	Code() RejectionCode
}

// BatchStatus defines batch run states for stored reports
type BatchStatus string

const (
	BatchStatusCompleted BatchStatus = "COMPLETED"
	BatchStatusFailed    BatchStatus = "FAILED"
)
