package chatcli

const (
	DefaultServer = "http://localhost:8080"
	DefaultWindow = 20
	taskPageSize  = 100
)

const (
	cmdTasks   = "/tasks"
	cmdTracker = "/tracker"
	cmdReset   = "/reset"
	cmdHelp    = "/help"
	cmdQuit    = "/quit"
	cmdExit    = "/exit"
)

const helpText = `Talk to the assistant in plain language, e.g. "add call mom tomorrow at 5pm".
Commands:
  /tasks [pending|done]  show your tasks
  /tracker               show what the assistant is collecting
  /reset                 start a fresh conversation
  /quit                  leave`
