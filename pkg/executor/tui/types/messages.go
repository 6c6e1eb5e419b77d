package types

import (
	"github.com/surivin/Global-List-Editor/pkg/witadmin"
)

// OperationStartMsg signals that a long-running operation has started
type OperationStartMsg struct {
	Message string // Loading message to display
}

// ToastMsg is a message type for showing toast notifications
type ToastMsg struct {
	Message string
	Details string
	Icon    string
	IsError bool
}

// WitadminDoneMsg carries the outcome of an export or import shown in the output overlay
type WitadminDoneMsg struct {
	OpID   int
	Title  string
	Path   string
	Result witadmin.Result
	Err    error
}

// ConfirmedMsg is sent when the user accepts a confirmation overlay
type ConfirmedMsg struct {
	Action string
}

// CopyMsg asks the model to put Text on the system clipboard
type CopyMsg struct {
	Text  string
	Label string
}
