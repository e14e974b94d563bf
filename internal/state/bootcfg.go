package state

import (
	"bytes"
	"io"
	"strconv"
	"time"

	"github.com/pocketpal/pocketpal/helpers"
	"github.com/pocketpal/pocketpal/internal/types"
)

// Boot config is the owner-editable KEY=value file on the boot partition.
// It survives reflashing and is the only thing the owner must edit by hand,
// so parsing is forgiving: a malformed value falls back to its default,
// only a missing HARDWARE key is fatal.

const (
	bootKeyHardware = "HARDWARE"
	bootKeyFirst    = "FIRST_NAME"
	bootKeyLast     = "LAST_NAME"
	bootKeyWifiSSID = "WIFI_SSID"
	bootKeyWifiPass = "WIFI_PASS"
	bootKeyTZOffset = "TZ_OFFSET_MIN"
)

const (
	defaultFirstName = "Friend"
	defaultLastName  = ""
)

type BootConfig struct {
	HardwareID   string
	FirstName    string
	LastName     string
	WifiSSID     string
	WifiPassword string
	TZOffsetMin  int
}

func (b *BootConfig) TZOffset() time.Duration {
	return time.Duration(b.TZOffsetMin) * time.Minute
}

func ParseBootConfig(r io.Reader) (*BootConfig, error) {
	kv, err := helpers.ParseKV(r)
	if err != nil {
		return nil, types.WrapConfig(err, "boot config")
	}
	b := &BootConfig{
		HardwareID:   kv[bootKeyHardware],
		FirstName:    defaultFirstName,
		LastName:     defaultLastName,
		WifiSSID:     kv[bootKeyWifiSSID],
		WifiPassword: kv[bootKeyWifiPass],
	}
	// present-but-empty means the owner wants it blank, default is only
	// for the absent key
	if v, ok := kv[bootKeyFirst]; ok {
		b.FirstName = v
	}
	if v, ok := kv[bootKeyLast]; ok {
		b.LastName = v
	}
	if v, ok := kv[bootKeyTZOffset]; ok {
		if n, e := strconv.Atoi(v); e == nil {
			b.TZOffsetMin = n
		}
	}
	if b.HardwareID == "" {
		return nil, types.NewConfigError("boot config: %s is required", bootKeyHardware)
	}
	return b, nil
}

// Format renders the canonical file. Parse(Format(b)) restores b exactly.
func (b *BootConfig) Format() []byte {
	kv := map[string]string{
		bootKeyHardware: b.HardwareID,
		bootKeyFirst:    b.FirstName,
		bootKeyLast:     b.LastName,
		bootKeyWifiSSID: b.WifiSSID,
		bootKeyWifiPass: b.WifiPassword,
		bootKeyTZOffset: strconv.Itoa(b.TZOffsetMin),
	}
	buf := bytes.Buffer{}
	buf.WriteString(helpers.FormatKV(kv))
	return buf.Bytes()
}
