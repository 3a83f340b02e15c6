package client

import (
	"encoding/json"

	"github.com/quasilyte/gdata"
	"github.com/sirupsen/logrus"
)

const (
	poseAppName = "ittybitycity"
	poseItemKey = "pose"
)

// SavedPose is the player pose stored between runs. X/Y/Z is the feet point
// so restoring it goes through the same drop-in path as a teleport. The level
// checksum gates the restore: a different level ignores the saved pose.
type SavedPose struct {
	LevelChecksum  string  `json:"levelChecksum"`
	X              float32 `json:"x"`
	Y              float32 `json:"y"`
	Z              float32 `json:"z"`
	Yaw            float32 `json:"yaw"`
	CameraYaw      float32 `json:"cameraYaw"`
	CameraPitch    float32 `json:"cameraPitch"`
	CameraDistance float32 `json:"cameraDistance"`
}

// poseStore persists the pose in the platform data directory. A store that
// failed to open degrades to a no-op so persistence never blocks play.
type poseStore struct {
	manager *gdata.Manager
	log     *logrus.Logger
}

func newPoseStore(log *logrus.Logger) *poseStore {
	m, err := gdata.Open(gdata.Config{AppName: poseAppName})
	if err != nil {
		log.Warnf("pose persistence unavailable: %v", err)
		return &poseStore{log: log}
	}
	return &poseStore{manager: m, log: log}
}

func (p *poseStore) load() (SavedPose, bool) {
	if p.manager == nil {
		return SavedPose{}, false
	}
	data, err := p.manager.LoadItem(poseItemKey)
	if err != nil {
		p.log.Warnf("could not load saved pose: %v", err)
		return SavedPose{}, false
	}
	if len(data) == 0 {
		return SavedPose{}, false
	}
	var pose SavedPose
	if err := json.Unmarshal(data, &pose); err != nil {
		p.log.Warnf("could not parse saved pose: %v", err)
		return SavedPose{}, false
	}
	return pose, true
}

func (p *poseStore) save(pose SavedPose) {
	if p.manager == nil {
		return
	}
	data, err := json.Marshal(pose)
	if err != nil {
		p.log.Warnf("could not serialize pose: %v", err)
		return
	}
	if err := p.manager.SaveItem(poseItemKey, data); err != nil {
		p.log.Warnf("could not save pose: %v", err)
	}
}
