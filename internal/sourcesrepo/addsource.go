package sourcesrepo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/semver/v3"

	"github.com/scopeengine/core"
)

// WorkingFile is one file's content as staged from a working copy, prior
// to being addressed as a Source blob.
type WorkingFile struct {
	Name         string
	RelativePath string
	Content      []byte
}

// NewVersionInput is the write primitive's parameter bag (spec.md §4.3
// addSource).
type NewVersionInput struct {
	Id                    scope.BitId // version-less target id
	MainFile              string
	Files                 []WorkingFile
	Dists                 []WorkingFile
	DepIds                []scope.BitId // fully version-qualified
	FlattenedDependencies []scope.BitId
	Message               string
	Author                string
	ExactVersion          string // overrides ReleaseType when set
	ReleaseType           string // "major" | "minor" | "patch"
	SpecsResults          []scope.SpecsResult
}

// AddSource is the Sources Repository write primitive. It loads (or
// creates) in.Id's Component, computes the next version, stages the new
// Sources, the new Version, and the updated Component, and returns the
// updated Component. The caller is responsible for calling Persist on the
// underlying object repository once a batch of writes is ready to flush
// (spec.md §4.4.1 step 5).
func (r *Repository) AddSource(ctx context.Context, in NewVersionInput) (*scope.Component, error) {
	comp, err := r.Get(ctx, in.Id)
	if err != nil {
		if serr, ok := asScopeError(err); ok && serr.Code == scope.CodeComponentNotFound {
			comp = &scope.Component{
				Scope:    in.Id.Scope,
				Box:      in.Id.Box,
				Name:     in.Id.Name,
				Versions: map[string]scope.Ref{},
			}
		} else {
			return nil, err
		}
	}

	nextVersion, err := nextVersion(comp, in.ExactVersion, in.ReleaseType)
	if err != nil {
		return nil, err
	}

	files, err := r.stageFiles(in.Files)
	if err != nil {
		return nil, err
	}
	dists, err := r.stageFiles(in.Dists)
	if err != nil {
		return nil, err
	}

	deps := make([]scope.Dependency, len(in.DepIds))
	for i, depID := range in.DepIds {
		deps[i] = scope.Dependency{Id: depID}
	}

	ver := &scope.Version{
		MainFile:              in.MainFile,
		Files:                 files,
		Dists:                 dists,
		Dependencies:          deps,
		FlattenedDependencies: dedupeIds(in.FlattenedDependencies),
		Log: scope.Log{
			Message: in.Message,
			Date:    time.Now(),
			Author:  in.Author,
		},
		SpecsResults: in.SpecsResults,
	}

	verRef, err := r.objects.Add(ver)
	if err != nil {
		return nil, err
	}

	next := comp.Clone()
	next.Versions[nextVersion] = verRef

	compRef, err := r.objects.Add(next)
	if err != nil {
		return nil, err
	}
	r.objects.PutLink(linkKey(in.Id), compRef)

	return next, nil
}

// PutAdditionalVersion stages an already-built Version under a fresh patch
// bump of comp, used by auto-bump (spec.md §4.4.5): the caller has already
// rewritten ver's dependency id and flattened-dependency entry to point at
// the just-committed version, so no release-type choice is exposed here.
func (r *Repository) PutAdditionalVersion(ctx context.Context, comp *scope.Component, ver *scope.Version, message string) (*scope.Component, error) {
	nextVersion, err := nextVersion(comp, "", "patch")
	if err != nil {
		return nil, err
	}

	verCopy := *ver
	verCopy.Log = scope.Log{Message: message, Date: time.Now()}

	verRef, err := r.objects.Add(&verCopy)
	if err != nil {
		return nil, err
	}

	next := comp.Clone()
	next.Versions[nextVersion] = verRef

	compRef, err := r.objects.Add(next)
	if err != nil {
		return nil, err
	}
	r.objects.PutLink(linkKey(next.Id()), compRef)

	return next, nil
}

func (r *Repository) stageFiles(files []WorkingFile) ([]scope.File, error) {
	out := make([]scope.File, len(files))
	for i, f := range files {
		ref, err := r.objects.Add(&scope.Source{Content: f.Content})
		if err != nil {
			return nil, err
		}
		out[i] = scope.File{Name: f.Name, RelativePath: f.RelativePath, File: ref}
	}
	return out, nil
}

func dedupeIds(ids []scope.BitId) []scope.BitId {
	seen := make(map[string]struct{}, len(ids))
	out := make([]scope.BitId, 0, len(ids))
	for _, id := range ids {
		key := id.String()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, id)
	}
	return out
}

// nextVersion computes the version key a new Version will be staged
// under: exact, if given and greater than every existing version;
// otherwise a bump of the latest existing version by releaseType; or
// 0.0.1 if comp has no versions yet.
func nextVersion(comp *scope.Component, exact, releaseType string) (string, error) {
	latest := latestSemver(comp)

	if exact != "" {
		ev, err := semver.NewVersion(exact)
		if err != nil {
			return "", fmt.Errorf("scope: invalid exact version %q: %w", exact, err)
		}
		if latest != nil && !ev.GreaterThan(latest) {
			return "", fmt.Errorf("scope: exact version %s must be greater than latest %s", exact, latest)
		}
		return ev.String(), nil
	}

	if latest == nil {
		return "0.0.1", nil
	}

	bumped := bumpVersion(*latest, releaseType)
	return bumped.String(), nil
}

func latestSemver(comp *scope.Component) *semver.Version {
	var latest *semver.Version
	for k := range comp.Versions {
		v, err := semver.NewVersion(k)
		if err != nil {
			continue
		}
		if latest == nil || v.GreaterThan(latest) {
			latest = v
		}
	}
	return latest
}

func bumpVersion(v semver.Version, releaseType string) semver.Version {
	switch releaseType {
	case "major":
		return v.IncMajor()
	case "minor":
		return v.IncMinor()
	default:
		return v.IncPatch()
	}
}
