package relay

import "errors"

var (
	// ErrNilLedger is returned by New when no burn ledger is supplied.
	// Construction fails and no relay comes into existence.
	ErrNilLedger = errors.New("burn ledger must not be nil")

	// ErrNilTransport is returned by New when no message transport is supplied.
	ErrNilTransport = errors.New("message transport must not be nil")

	// ErrNilMintRecipient is returned when a request names the zero address
	// as mint recipient.
	ErrNilMintRecipient = errors.New("mint recipient must not be the zero address")

	// ErrTransferFailed wraps the ledger's reason when moving the caller's
	// tokens into custody is rejected.
	ErrTransferFailed = errors.New("transfer into custody failed")

	// ErrApprovalFailed wraps the ledger's reason when authorizing the burn
	// debit is rejected.
	ErrApprovalFailed = errors.New("burn authorization failed")

	// ErrBurnFailed wraps the ledger's reason when the burn itself is
	// rejected, e.g. a per-message cap.
	ErrBurnFailed = errors.New("burn failed")

	// ErrSendFailed wraps the transport's reason when the auxiliary message
	// is rejected, e.g. an oversized payload.
	ErrSendFailed = errors.New("metadata send failed")
)
