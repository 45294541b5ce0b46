// Package protocol defines the cross-package vocabulary for codeagent:
// tool names, structured block keys, primitive limits, and the fixed
// sentences shown when there is nothing to report.
package protocol

// Tool names one of the actions the model can choose.
type Tool string

const (
	ToolReadFile   Tool = "read_file"
	ToolEditFile   Tool = "edit_file"
	ToolDeleteFile Tool = "delete_file"
	ToolGrepSearch Tool = "grep_search"
	ToolListDir    Tool = "list_dir"
	ToolFinish     Tool = "finish"
)

// Tools lists every tool in the order they are presented to the model.
var Tools = []Tool{
	ToolReadFile,
	ToolEditFile,
	ToolDeleteFile,
	ToolGrepSearch,
	ToolListDir,
	ToolFinish,
}

func (t Tool) String() string { return string(t) }

// IsValid reports whether t is a recognised tool.
func (t Tool) IsValid() bool {
	switch t {
	case ToolReadFile, ToolEditFile, ToolDeleteFile, ToolGrepSearch, ToolListDir, ToolFinish:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether choosing t ends the decision loop.
func (t Tool) IsTerminal() bool { return t == ToolFinish }

// Keys of the decision block.
const (
	KeyTool   = "tool"
	KeyReason = "reason"
	KeyParams = "params"
)

// Keys of the edit plan block.
const (
	KeyReasoning   = "reasoning"
	KeyOperations  = "operations"
	KeyStartLine   = "start_line"
	KeyEndLine     = "end_line"
	KeyReplacement = "replacement"
)

// Tool parameter names.
const (
	ParamTargetFile     = "target_file"
	ParamInstructions   = "instructions"
	ParamCodeEdit       = "code_edit"
	ParamQuery          = "query"
	ParamCaseSensitive  = "case_sensitive"
	ParamIncludePattern = "include_pattern"
	ParamExcludePattern = "exclude_pattern"
	ParamWorkspacePath  = "relative_workspace_path"
	ParamStartLine      = "start_line"
	ParamEndLine        = "end_line"
)

// Limits enforced by the file primitives.
const (
	MaxReadLines     = 250
	MaxSearchMatches = 50
	MaxListedFiles   = 10
)

// Fixed sentences.
const (
	NoPreviousActions  = "No previous actions."
	NoActionsPerformed = "No actions were performed."
)
