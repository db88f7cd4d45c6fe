package pipeline

import (
	"errors"

	"github.com/atotto/clipboard"
)

var errClipboardUnsupported = errors.New("no clipboard utility available")

// SystemClipboard copies text to the system clipboard. It fails on hosts without a clipboard
// utility (xclip, xsel, wl-copy, pbcopy or clip.exe).
func SystemClipboard(text string) error {
	if clipboard.Unsupported {
		return errClipboardUnsupported
	}
	return clipboard.WriteAll(text)
}
