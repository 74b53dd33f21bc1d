// Package facts answers game-state questions about a single captured frame:
// where the minimap, player, rune and portals are, which mobs are on screen,
// how much health is left, which buffs are active and whether a menu or
// dialog covers the game.
//
// A Registry owns the bundled assets and is shared process-wide. A Detector
// binds a Registry to one frame; NewCachedDetector additionally reuses the
// grayscale images several questions are answered from.
//
//	reg := facts.NewRegistry(os.DirFS(assets), facts.Options{})
//	defer reg.Close()
//
//	d := facts.NewCachedDetector(reg, frame)
//	defer d.Close()
//
//	minimap, err := d.Minimap(170)
//	if err != nil {
//		return err
//	}
//	player, err := d.Player(minimap)
//
// Template misses wrap detection.ErrNotFound. Two questions remember which
// of two templates matched last (see package calibration) because the game
// draws the player marker and the health separator differently depending on
// client settings.
package facts
