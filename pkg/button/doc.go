// Package button renders the design-system Button as a templ component.
//
// A Button is described by Props and rendered in one of three shapes,
// chosen once per render with fixed precedence:
//
//  1. wrapper mode: Props.Wrapper is set and becomes the root element.
//  2. link mode: Props.IsLink is set and the root is an <a>.
//  3. button mode: the root is a <button>.
//
// Every shape contains the same inner content: the children inside a
// text region and, while loading, an absolutely positioned loading region
// that overlays the text without changing the button's box.
//
// Link mode does not forward IsDisabled. Anchors have no native disabled
// state, so neither the attribute nor the disabled style class is emitted.
//
//	templ.Handler(button.Button(button.Props{
//		Children:   button.Text("Save"),
//		Appearance: button.AppearancePrimary,
//		IsLoading:  true,
//	}))
package button
