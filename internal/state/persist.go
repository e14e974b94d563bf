package state

import (
	"bytes"
	"path/filepath"
	"strings"

	"github.com/juju/errors"
	"github.com/temoto/extremofile"

	"github.com/pocketpal/pocketpal/helpers"
	"github.com/pocketpal/pocketpal/log2"
)

type prefStorage interface {
	Read() ([]byte, error)
	Write(b []byte) (int, error)
}

// Prefs is the small key=value preference store on crash-safe storage.
// Keys are upper-cased. Writes go through immediately; flash wear is not a
// concern at launcher-preference rates.
type Prefs struct {
	log     *log2.Log
	storage prefStorage
	cache   map[string]string
}

// NewPrefs with empty root keeps preferences in memory only.
func NewPrefs(log *log2.Log, root string) *Prefs {
	p := &Prefs{log: log, cache: make(map[string]string, 8)}
	if root != "" {
		p.storage = extremofile.New(extremofile.Config{
			Dir:      filepath.Join(root, "prefs"),
			DirPerm:  0755,
			FilePerm: 0644,
		})
	}
	return p
}

func (p *Prefs) Load() error {
	if p.storage == nil {
		return nil
	}
	b, err := p.storage.Read()
	if b != nil {
		if err != nil {
			p.log.Errorf("prefs ignore non-critical storage err=%v", err)
		}
		kv, e := helpers.ParseKV(bytes.NewReader(b))
		if e != nil {
			// corrupt prefs lose, the device must still boot
			p.log.Errorf("prefs corrupt, starting empty err=%v", e)
			return nil
		}
		p.cache = kv
		return nil
	}
	return errors.Annotate(err, "prefs load")
}

func (p *Prefs) Get(key string) string {
	return p.cache[strings.ToUpper(key)]
}

func (p *Prefs) Set(key, value string) error {
	key = strings.ToUpper(key)
	if p.cache[key] == value {
		return nil
	}
	p.cache[key] = value
	if p.storage == nil {
		return nil
	}
	_, err := p.storage.Write([]byte(helpers.FormatKV(p.cache)))
	return errors.Annotate(err, "prefs store")
}
