// Package assets defines how cards map to image resources. Every card key
// maps to "<key>.png" and the concealed dealer card maps to "BACK.png". Front
// ends that draw card images depend on these names exactly.
package assets

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/lox/blackjack/internal/blackjack"
	"github.com/lox/blackjack/internal/cards"
)

const (
	// Ext is the file extension of every card image.
	Ext = ".png"
	// BackImage is the image shown for the concealed dealer card.
	BackImage = "BACK" + Ext
)

// ImageName returns the image resource name for a card, e.g. "A-H.png".
func ImageName(c cards.Card) string {
	return c.Key() + Ext
}

// Names returns all 53 image names: the 52 cards in build order, then the back.
func Names() []string {
	all := cards.All()
	names := make([]string, 0, len(all)+1)
	for _, c := range all {
		names = append(names, ImageName(c))
	}
	return append(names, BackImage)
}

// Images lists the image names needed to draw a round.
type Images struct {
	Dealer []string
	Player []string
}

// ForView returns the images for a round view in display order. While the
// dealer's card is concealed it is drawn first as the card back.
func ForView(v blackjack.RoundView) Images {
	img := Images{
		Dealer: make([]string, 0, len(v.DealerVisibleCards)+1),
		Player: make([]string, 0, len(v.PlayerCards)),
	}

	if v.State != blackjack.Idle && !v.HiddenCardRevealed {
		img.Dealer = append(img.Dealer, BackImage)
	}
	for _, c := range v.DealerVisibleCards {
		img.Dealer = append(img.Dealer, ImageName(c))
	}
	for _, c := range v.PlayerCards {
		img.Player = append(img.Player, ImageName(c))
	}
	return img
}

// Resolver looks card images up in a file system, typically os.DirFS of an
// asset directory.
type Resolver struct {
	fsys fs.FS
}

// NewResolver creates a resolver over fsys
func NewResolver(fsys fs.FS) *Resolver {
	return &Resolver{fsys: fsys}
}

// Open opens the image for a card
func (r *Resolver) Open(c cards.Card) (fs.File, error) {
	return r.fsys.Open(ImageName(c))
}

// OpenBack opens the card back image
func (r *Resolver) OpenBack() (fs.File, error) {
	return r.fsys.Open(BackImage)
}

// Missing returns the names of images that are not present, in Names order.
func (r *Resolver) Missing() ([]string, error) {
	var missing []string
	for _, name := range Names() {
		info, err := fs.Stat(r.fsys, name)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			missing = append(missing, name)
		case err != nil:
			return nil, fmt.Errorf("stat %s: %w", name, err)
		case info.IsDir():
			missing = append(missing, name)
		}
	}
	return missing, nil
}

// Validate returns an error naming every missing image.
func (r *Resolver) Validate() error {
	missing, err := r.Missing()
	if err != nil {
		return err
	}
	if len(missing) == 0 {
		return nil
	}

	errs := make([]error, len(missing))
	for i, name := range missing {
		errs[i] = fmt.Errorf("missing card image %s", name)
	}
	return errors.Join(errs...)
}
