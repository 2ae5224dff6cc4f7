// Package render turns solved lines into display text.
//
// Mapping cell states to glyphs is presentation policy, so the solver core
// never does it. The default [Glyphs] follow the classic demo output:
//
//	X  filled
//	O  empty
//	_  unknown
//
// Callers override them through configuration:
//
//	g := render.Glyphs{Filled: "#", Empty: "-", Unknown: "?"}
//	fmt.Println(render.Text(states, g))   // "##-#######"
//	fmt.Println(render.Spaced(states, g)) // "# # - # # ..."
package render
