// Package cv holds the canonical résumé record and the pure helpers around it.
//
// Record is plain data. Normalize produces the canonical shape every other package
// expects (no nil lists, a known template id, language levels in range, unique ids).
// The gateway normalizes on load and import; the renderers never see a loose shape.
//
// Values derived for display only (DecorativePercent, InterestIcon, LevelLabel) live
// here so the HTML templates and the PDF layouts agree on them.
package cv
