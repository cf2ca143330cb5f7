// Package cvtemplate provides the template registry and the HTML preview renderer.
//
// Registry maps a template id to a Template (layout strategy, stylesheet and renderer).
// Unknown ids never fail: they resolve to the default template. DefaultRegistry wires
// the four builtin templates backed by the embedded pongo2 markup under assets/.
//
// Rendering is split per section: every placed block is executed on its own and a block
// that fails renders empty, so one malformed section never blanks the whole preview.
package cvtemplate
