package pipeline

// Artifacts are the five named on-disk stage outputs for one base name. Each
// is produced by exactly one stage and treated as immutable once written.
type Artifacts struct {
	CalmGIF     string `json:"calm_gif"`
	ClimaxGIF   string `json:"climax_gif"`
	RawVideo    string `json:"raw_video"`
	MotionVideo string `json:"motion_video"`
	FinalVideo  string `json:"final_video"`
}

func ArtifactsFor(base string) Artifacts {
	return Artifacts{
		CalmGIF:     base + "_glitch1.gif",
		ClimaxGIF:   base + "_glitch2.gif",
		RawVideo:    base + "_raw.mp4",
		MotionVideo: base + "_vfx.mp4",
		FinalVideo:  base + "_final.mp4",
	}
}

// All lists the artifacts in pipeline order.
func (a Artifacts) All() []string {
	return []string{a.CalmGIF, a.ClimaxGIF, a.RawVideo, a.MotionVideo, a.FinalVideo}
}
