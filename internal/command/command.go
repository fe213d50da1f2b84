// Package command names the editor's menu commands and the result each one
// reports back to the status bar.
package command

import "fmt"

type ID string

const (
	FileNew           ID = "file_new"
	FileOpen          ID = "file_open"
	FileClose         ID = "file_close"
	FileSave          ID = "file_save"
	FileSaveAs        ID = "file_save_as"
	FileInfo          ID = "file_info"
	FilePrint         ID = "file_print"
	FilePrintSettings ID = "file_print_settings"
	FilePreview       ID = "file_preview"
	FileExit          ID = "file_exit"

	EditUndo      ID = "edit_undo"
	EditRedo      ID = "edit_redo"
	EditCut       ID = "edit_cut"
	EditCopy      ID = "edit_copy"
	EditPaste     ID = "edit_paste"
	EditDelete    ID = "edit_delete"
	EditSelectAll ID = "edit_select_all"

	SearchFind     ID = "search_find"
	SearchFindNext ID = "search_find_next"
	SearchFindPrev ID = "search_find_prev"
	SearchReplace  ID = "search_replace"

	HelpAbout ID = "help_about"
)

// All lists every command in menu order.
var All = []ID{
	FileNew, FileOpen, FileClose, FileSave, FileSaveAs, FileInfo,
	FilePrint, FilePrintSettings, FilePreview, FileExit,
	EditUndo, EditRedo, EditCut, EditCopy, EditPaste, EditDelete, EditSelectAll,
	SearchFind, SearchFindNext, SearchFindPrev, SearchReplace,
	HelpAbout,
}

func Known(id ID) bool {
	for _, c := range All {
		if c == id {
			return true
		}
	}
	return false
}

type Status int

const (
	StatusOK Status = iota
	StatusCancelled
	StatusNotImplemented
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusCancelled:
		return "cancelled"
	case StatusNotImplemented:
		return "not implemented"
	case StatusFailed:
		return "failed"
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// Result is what a command reports. A command that is wired into the menu
// but has no behavior yet returns StatusNotImplemented rather than doing
// nothing.
type Result struct {
	Status  Status
	Message string
	Err     error
}

func OK(msg string) Result {
	return Result{Status: StatusOK, Message: msg}
}

func Cancelled() Result {
	return Result{Status: StatusCancelled, Message: "cancelled"}
}

func NotImplemented(name string) Result {
	return Result{Status: StatusNotImplemented, Message: name + ": not implemented"}
}

func Failed(err error) Result {
	return Result{Status: StatusFailed, Message: err.Error(), Err: err}
}

func (r Result) String() string {
	return r.Message
}
