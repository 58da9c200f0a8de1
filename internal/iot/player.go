package iot

import "os/exec"

// Player sounds the physical alarm at the edge site.
type Player interface {
	Play() error
}

// ExecPlayer shells out to a local audio player, e.g.
// {Command: "omxplayer", Args: []string{"not_protected.ogg"}}.
type ExecPlayer struct {
	Command string
	Args    []string
}

func (p ExecPlayer) Play() error {
	return exec.Command(p.Command, p.Args...).Run()
}
