package syncer

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pezkuwi/wallet-config/internal/chain"
	"github.com/pezkuwi/wallet-config/internal/config"
	"github.com/pezkuwi/wallet-config/internal/merge"
	"github.com/pezkuwi/wallet-config/pkg/utils"
	"github.com/sirupsen/logrus"
)

// Syncer regenerates the published configuration tree from the base set
// and the overlay set. One call, one full rewrite of the outputs; no
// state survives between runs.
type Syncer struct {
	cfg      *config.Config
	manifest *config.OverlayManifest
	logger   *logrus.Logger
}

// Summary accounts for one completed run.
type Summary struct {
	Versions      []VersionSummary
	OverlayChains int
	XCMFiles      int
	IconsCopied   int
}

// VersionSummary accounts for one chain-config version.
type VersionSummary struct {
	Version string
	Overlay int
	Base    int
	Merged  int
}

func New(cfg *config.Config, manifest *config.OverlayManifest, logger *logrus.Logger) *Syncer {
	return &Syncer{
		cfg:      cfg,
		manifest: manifest,
		logger:   logger,
	}
}

// Run syncs the given chain-config versions plus every unversioned
// section (XCM, global config, validators, icons). An empty versions
// slice discovers every version present under the base directory.
// Any failure aborts the run before the failing file is written.
func (s *Syncer) Run(versions []string) (*Summary, error) {
	overlayChains, err := chain.LoadSetIfExists(s.overlayPath(s.manifest.Chains))
	if err != nil {
		return nil, err
	}
	s.logger.Infof("Overlay chains loaded: %d", len(overlayChains))

	explicit := len(versions) > 0
	if !explicit {
		versions, err = s.discoverVersions(filepath.Join(s.cfg.Paths.BaseDir, "chains"))
		if err != nil {
			return nil, err
		}
	}
	if len(versions) == 0 {
		s.logger.Warn("No chain-config versions found under base directory")
	}

	summary := &Summary{OverlayChains: len(overlayChains)}

	s.logger.Info("=== Chains ===")
	for _, version := range versions {
		vs, err := s.syncChainsVersion(version, overlayChains)
		if err != nil {
			return nil, err
		}
		summary.Versions = append(summary.Versions, *vs)
		s.logger.Infof("  %s/chains.json: %d overlay + %d base = %d",
			version, vs.Overlay, vs.Base, vs.Merged)
	}

	s.logger.Info("=== XCM ===")
	xcmFiles, err := s.syncXCM()
	if err != nil {
		return nil, err
	}
	summary.XCMFiles = xcmFiles

	s.logger.Info("=== Global config ===")
	if err := s.syncGlobalConfig(); err != nil {
		return nil, err
	}

	s.logger.Info("=== Validators ===")
	if err := s.syncValidators(); err != nil {
		return nil, err
	}

	s.logger.Info("=== Icons ===")
	icons, err := s.syncIcons()
	if err != nil {
		return nil, err
	}
	summary.IconsCopied = icons

	return summary, nil
}

func (s *Syncer) basePath(parts ...string) string {
	return filepath.Join(append([]string{s.cfg.Paths.BaseDir}, parts...)...)
}

func (s *Syncer) overlayPath(rel string) string {
	return filepath.Join(s.cfg.Paths.OverlayDir, rel)
}

func (s *Syncer) outputPath(parts ...string) string {
	return filepath.Join(append([]string{s.cfg.Paths.OutputDir}, parts...)...)
}

// discoverVersions lists the v* directories under dir that carry a
// chains.json. A missing dir is not an error; the base subrepository
// may not be checked out yet, and the run then syncs overlay data only.
func (s *Syncer) discoverVersions(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, &chain.IOError{Op: "read", Path: dir, Err: err}
	}

	var versions []string
	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasPrefix(entry.Name(), "v") {
			continue
		}
		if _, err := os.Stat(filepath.Join(dir, entry.Name(), "chains.json")); err != nil {
			s.logger.Warnf("Skipping %s: no chains.json", entry.Name())
			continue
		}
		versions = append(versions, entry.Name())
	}
	sort.Strings(versions)
	return versions, nil
}

func (s *Syncer) syncChainsVersion(version string, overlay chain.Set) (*VersionSummary, error) {
	basePath := s.basePath("chains", version, "chains.json")
	if _, err := os.Stat(basePath); err != nil {
		// Fall back to the unversioned base file, like older base
		// snapshots shipped. An absent base behaves as an empty set:
		// the output is then the overlay alone.
		rootPath := s.basePath("chains", "chains.json")
		if _, rootErr := os.Stat(rootPath); rootErr == nil {
			s.logger.Warnf("Base chains not found at %s, using %s", basePath, rootPath)
			basePath = rootPath
		} else {
			s.logger.Warnf("Base chains not found for %s, syncing overlay only", version)
			basePath = ""
		}
	}

	var base chain.Set
	if basePath != "" {
		var err error
		base, err = chain.LoadSet(basePath)
		if err != nil {
			return nil, err
		}
	}

	merged := merge.Chains(base, overlay)

	outputs := []string{
		s.outputPath("chains", version, "chains.json"),
		s.outputPath("chains", version, "android", "chains.json"),
		s.outputPath("chains", "chains.json"),
	}
	for _, out := range outputs {
		if err := merged.WriteFile(out); err != nil {
			return nil, err
		}
	}

	if err := s.syncDevChains(version, overlay); err != nil {
		return nil, err
	}
	if err := s.syncPreConfigured(version); err != nil {
		return nil, err
	}

	return &VersionSummary{
		Version: version,
		Overlay: len(overlay),
		Base:    len(base),
		Merged:  len(merged),
	}, nil
}

func (s *Syncer) syncDevChains(version string, overlay chain.Set) error {
	devPath := s.basePath("chains", version, "chains_dev.json")
	if _, err := os.Stat(devPath); err != nil {
		return nil
	}

	base, err := chain.LoadSet(devPath)
	if err != nil {
		return err
	}
	merged := merge.Chains(base, overlay)
	return merged.WriteFile(s.outputPath("chains", version, "chains_dev.json"))
}

func (s *Syncer) syncPreConfigured(version string) error {
	src := s.basePath("chains", version, "preConfigured")
	if _, err := os.Stat(src); err != nil {
		return nil
	}

	dst := s.outputPath("chains", version, "preConfigured")
	if err := os.RemoveAll(dst); err != nil {
		return &chain.IOError{Op: "remove", Path: dst, Err: err}
	}
	if _, err := utils.CopyTree(src, dst, true); err != nil {
		return &chain.IOError{Op: "copy", Path: src, Err: err}
	}
	return nil
}

func (s *Syncer) syncXCM() (int, error) {
	overlayStatic, err := merge.LoadXCMIfExists(s.overlayPath(s.manifest.XCM.Static))
	if err != nil {
		return 0, err
	}
	overlayDynamic, err := merge.LoadXCMIfExists(s.overlayPath(s.manifest.XCM.Dynamic))
	if err != nil {
		return 0, err
	}

	synced := 0
	xcmRoot := s.basePath("xcm")
	entries, err := os.ReadDir(xcmRoot)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, &chain.IOError{Op: "read", Path: xcmRoot, Err: err}
	}

	for _, entry := range entries {
		if entry.IsDir() && strings.HasPrefix(entry.Name(), "v") {
			version := entry.Name()
			files, err := filepath.Glob(filepath.Join(xcmRoot, version, "*.json"))
			if err != nil {
				return synced, &chain.IOError{Op: "read", Path: xcmRoot, Err: err}
			}
			sort.Strings(files)

			for _, file := range files {
				base, err := merge.LoadXCM(file)
				if err != nil {
					return synced, err
				}

				// Dynamic XCM files take the dynamic overlay.
				overlay := overlayStatic
				if strings.Contains(filepath.Base(file), "dynamic") {
					overlay = overlayDynamic
				}

				merged := merge.XCM(base, overlay)
				out := s.outputPath("xcm", version, filepath.Base(file))
				if err := merged.WriteFile(out); err != nil {
					return synced, err
				}
				synced++
				s.logger.Infof("  %s/%s: %d chains", version, filepath.Base(file), len(merged.Chains))
			}
			continue
		}

		// Root-level XCM files pass through verbatim.
		if strings.HasSuffix(entry.Name(), ".json") {
			src := filepath.Join(xcmRoot, entry.Name())
			if err := utils.CopyFile(src, s.outputPath("xcm", entry.Name())); err != nil {
				return synced, &chain.IOError{Op: "copy", Path: src, Err: err}
			}
		}
	}

	return synced, nil
}

func (s *Syncer) syncGlobalConfig() error {
	overlay, err := merge.LoadDocumentIfExists(s.overlayPath(s.manifest.GlobalConfig))
	if err != nil {
		return err
	}

	for _, suffix := range []string{"", "_dev"} {
		base := map[string]any{}

		// The base splits its config across global/ and staking/;
		// staking entries win at the top level.
		for _, path := range []string{
			s.basePath("global", fmt.Sprintf("config%s.json", suffix)),
			s.basePath("staking", fmt.Sprintf("global_config%s.json", suffix)),
		} {
			if _, err := os.Stat(path); err != nil {
				continue
			}
			doc, err := merge.LoadDocument(path)
			if err != nil {
				return err
			}
			for k, v := range doc {
				base[k] = v
			}
		}

		merged, err := merge.GlobalConfig(base, overlay)
		if err != nil {
			return err
		}

		out := s.outputPath("staking", fmt.Sprintf("global_config%s.json", suffix))
		if err := merge.WriteDocument(out, merged); err != nil {
			return err
		}

		label := "production"
		if suffix == "_dev" {
			label = "dev"
		}
		s.logger.Infof("  %s: %d keys", label, len(merged))
	}

	return nil
}

func (s *Syncer) syncValidators() error {
	validators := s.basePath("staking", "nova_validators.json")
	if _, err := os.Stat(validators); err == nil {
		if err := utils.CopyFile(validators, s.outputPath("staking", "nova_validators.json")); err != nil {
			return &chain.IOError{Op: "copy", Path: validators, Err: err}
		}
	}

	src := s.basePath("staking", "validators")
	if _, err := os.Stat(src); err != nil {
		return nil
	}
	dst := s.outputPath("staking", "validators")
	if err := os.RemoveAll(dst); err != nil {
		return &chain.IOError{Op: "remove", Path: dst, Err: err}
	}
	if _, err := utils.CopyTree(src, dst, true); err != nil {
		return &chain.IOError{Op: "copy", Path: src, Err: err}
	}
	return nil
}

// syncIcons copies base icons only where the output has none, then
// overlay icons unconditionally. Overlay art always wins.
func (s *Syncer) syncIcons() (int, error) {
	out := s.outputPath("icons")

	baseIcons := s.basePath("icons")
	if _, err := os.Stat(baseIcons); err == nil {
		if _, err := utils.CopyTree(baseIcons, out, false); err != nil {
			return 0, &chain.IOError{Op: "copy", Path: baseIcons, Err: err}
		}
	}

	overlayIcons := s.overlayPath("icons")
	if _, err := os.Stat(overlayIcons); err != nil {
		return 0, nil
	}
	copied, err := utils.CopyTree(overlayIcons, out, true)
	if err != nil {
		return copied, &chain.IOError{Op: "copy", Path: overlayIcons, Err: err}
	}
	return copied, nil
}
