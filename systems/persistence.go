package systems

import (
	"encoding/json"
	"log"

	"github.com/quasilyte/gdata"
)

const profileKey = "profile"

// Profile is the participant data kept between runs.
type Profile struct {
	PlayerName string `json:"playerName"`
	LastServer string `json:"lastServer"`
}

var gdataManager *gdata.Manager
var gdataInitialized bool

// InitPersistence opens the profile store. A failure is logged and leaves
// persistence disabled.
func InitPersistence(appName string) error {
	m, err := gdata.Open(gdata.Config{
		AppName: appName,
	})
	if err != nil {
		log.Printf("[client] could not initialize persistence: %v", err)
		return err
	}
	gdataManager = m
	gdataInitialized = true
	return nil
}

// LoadProfile returns the saved profile, or nil when there is none or
// persistence is disabled.
func LoadProfile() (*Profile, error) {
	if !gdataInitialized || gdataManager == nil {
		return nil, nil
	}

	data, err := gdataManager.LoadItem(profileKey)
	if err != nil {
		log.Printf("[client] could not load profile: %v", err)
		return nil, nil
	}
	if data == nil {
		return nil, nil
	}

	var p Profile
	if err := json.Unmarshal(data, &p); err != nil {
		log.Printf("[client] could not parse saved profile: %v", err)
		return nil, err
	}
	return &p, nil
}

// SaveProfile writes p to disk. It is a no-op when persistence is disabled.
func SaveProfile(p *Profile) error {
	if !gdataInitialized || gdataManager == nil {
		return nil
	}

	data, err := json.Marshal(p)
	if err != nil {
		log.Printf("[client] could not serialize profile: %v", err)
		return err
	}

	if err := gdataManager.SaveItem(profileKey, data); err != nil {
		log.Printf("[client] could not save profile: %v", err)
		return err
	}
	return nil
}

// MergeProfile fills empty fields of flags from the saved profile and returns
// the profile to save back.
func MergeProfile(saved *Profile, playerName, server string) Profile {
	out := Profile{PlayerName: playerName, LastServer: server}
	if saved == nil {
		return out
	}
	if out.PlayerName == "" {
		out.PlayerName = saved.PlayerName
	}
	if out.LastServer == "" {
		out.LastServer = saved.LastServer
	}
	return out
}
