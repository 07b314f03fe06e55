package view

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"os/exec"
	"runtime"
)

// Clipboard receives copied text.
type Clipboard interface {
	Copy(text string) error
}

// Opener shows a URL to the user.
type Opener interface {
	Open(url string) error
}

// OSC52Clipboard sets the terminal clipboard with an OSC 52 escape sequence,
// which also works over SSH.
type OSC52Clipboard struct {
	W io.Writer
}

func (c OSC52Clipboard) Copy(text string) error {
	_, err := fmt.Fprintf(c.W, "\x1b]52;c;%s\a", base64.StdEncoding.EncodeToString([]byte(text)))
	return err
}

// BrowserOpener starts the platform URL handler.
type BrowserOpener struct {
	Ctx context.Context
}

func (o BrowserOpener) Open(url string) error {
	ctx := o.Ctx
	if ctx == nil {
		ctx = context.Background()
	}
	name, args := openCommand(runtime.GOOS, url)
	return exec.CommandContext(ctx, name, args...).Start()
}

func openCommand(goos, url string) (string, []string) {
	switch goos {
	case "darwin":
		return "open", []string{url}
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", url}
	default:
		return "xdg-open", []string{url}
	}
}

// PrintOpener writes the URL instead of launching anything.
type PrintOpener struct {
	W io.Writer
}

func (o PrintOpener) Open(url string) error {
	_, err := fmt.Fprintln(o.W, url)
	return err
}
