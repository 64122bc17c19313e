package types

// CreateRequest describes a container to create and start.
// Field names follow the Docker Engine API casing so clients can send
// the same payload they would send to the engine directly.
type CreateRequest struct {
	Name  string   `json:"Name,omitempty"`
	Image string   `json:"Image"`
	Cmd   []string `json:"Cmd,omitempty"`
	Env   []string `json:"Env,omitempty"`
	Tty   bool     `json:"Tty,omitempty"`
	// Ports maps container port (e.g. "3000" or "3000/tcp") to host port.
	Ports map[string]string `json:"Ports,omitempty"`
}

// RunRequest describes a one-shot container run: create, start, wait
// for exit, and return the captured output.
type RunRequest struct {
	Image string   `json:"Image"`
	Cmd   []string `json:"Cmd,omitempty"`
	Tty   bool     `json:"Tty,omitempty"`
}

// ExecRequest carries a code snippet to run in a throwaway container.
// Cmd optionally overrides the keep-alive command the container is
// created with; the snippet itself always runs via exec.
type ExecRequest struct {
	Code string   `json:"code"`
	Cmd  []string `json:"Cmd,omitempty"`
}
