package deploy

import (
	"context"
	"log"
)

// Mode distinguishes a live deployment-backed session from a preview run on
// default config.
type Mode string

const (
	ModeLive    Mode = "live"
	ModePreview Mode = "preview"
)

// Params are the inputs that identify a session, already resolved from the
// transport layer's fallback chain.
type Params struct {
	GameID       string
	DeploymentID string
	Player       string
}

// Resolution is what the resolver always produces: a mode, an optional
// payload, and a warning for the briefing banner when things degraded.
type Resolution struct {
	Mode    Mode
	Payload *Payload
	Warning string
}

// Resolver loads deployment payloads: local cache first, then the remote
// store, degrading to preview mode rather than failing. Either field may be
// nil (no cache, or no remote store configured).
type Resolver struct {
	Store  *Store
	Client *Client
}

// Resolve never returns an error: every failure path degrades to a preview
// resolution with a warning so the mission stays playable.
func (r *Resolver) Resolve(ctx context.Context, params Params) Resolution {
	id := params.DeploymentID

	// Fall back to the last-used deployment when none was requested.
	if id == "" && r.Store != nil {
		last, err := r.Store.LastDeploymentID()
		if err != nil {
			log.Printf("resolver: last deployment lookup: %v", err)
		} else {
			id = last
		}
	}

	if id != "" && r.Store != nil {
		cached, err := r.Store.GetDeployment(id)
		if err != nil {
			log.Printf("resolver: cache lookup for %s: %v", id, err)
		} else if cached != nil {
			return Resolution{Mode: ModeLive, Payload: cached}
		}
	}

	if params.DeploymentID != "" && r.Client != nil {
		fetched, err := r.Client.FetchDeployment(ctx, params.Player, params.DeploymentID)
		if err != nil {
			log.Printf("resolver: remote fetch for %s: %v", params.DeploymentID, err)
			return Resolution{
				Mode:    ModePreview,
				Warning: "Could not reach the deployment store. Running a preview with default settings.",
			}
		}
		if fetched == nil {
			return Resolution{
				Mode:    ModePreview,
				Warning: "Deployment " + params.DeploymentID + " was not found. Running a preview with default settings.",
			}
		}
		if r.Store != nil {
			if err := r.Store.PutDeployment(fetched); err != nil {
				log.Printf("resolver: cache write for %s: %v", fetched.ID, err)
			}
		}
		return Resolution{Mode: ModeLive, Payload: fetched}
	}

	if params.DeploymentID != "" {
		return Resolution{
			Mode:    ModePreview,
			Warning: "No deployment data available. Running a preview with default settings.",
		}
	}
	return Resolution{Mode: ModePreview}
}
