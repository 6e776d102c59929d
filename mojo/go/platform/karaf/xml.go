/*
 * Copyright 2023 The Mojo Authors. All rights reserved.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *   http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package karaf

import (
	"io"
	"strconv"

	"github.com/beevik/etree"
)

// WriteXML writes f as a Karaf features document.
func WriteXML(w io.Writer, f *Features) error {
	doc := etree.NewDocument()
	doc.WriteSettings.CanonicalText = true
	doc.WriteSettings.CanonicalAttrVal = true
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8" standalone="yes"`)

	root := doc.CreateElement("features")
	if f.Name != "" {
		root.CreateAttr("name", f.Name)
	}
	root.CreateAttr("xmlns", Namespace)
	for _, repo := range f.Repositories {
		root.CreateElement("repository").SetText(repo)
	}
	for _, feature := range f.Features {
		writeFeature(root.CreateElement("feature"), feature)
	}

	doc.Indent(4)
	_, err := doc.WriteTo(w)
	return err
}

func writeFeature(e *etree.Element, f *Feature) {
	e.CreateAttr("name", f.Name)
	if f.Version != "" {
		e.CreateAttr("version", f.Version)
	}
	if f.Description != "" {
		e.CreateAttr("description", f.Description)
	}
	if f.Details != "" {
		e.CreateElement("details").SetText(f.Details)
	}
	for _, c := range f.Configs {
		ce := e.CreateElement("config")
		ce.CreateAttr("name", c.Name)
		ce.SetText(c.Value)
	}
	for _, c := range f.ConfigFiles {
		ce := e.CreateElement("configfile")
		ce.CreateAttr("finalname", c.FinalName)
		if c.Override != nil {
			ce.CreateAttr("override", strconv.FormatBool(*c.Override))
		}
		ce.SetText(c.Location)
	}
	for _, d := range f.Dependencies {
		de := e.CreateElement("feature")
		if d.Version != "" {
			de.CreateAttr("version", d.Version)
		}
		de.SetText(d.Name)
	}
	for _, b := range f.Bundles {
		be := e.CreateElement("bundle")
		if b.StartLevel != 0 {
			be.CreateAttr("start-level", strconv.Itoa(b.StartLevel))
		}
		if b.Start != nil {
			be.CreateAttr("start", strconv.FormatBool(*b.Start))
		}
		if b.Dependency != nil {
			be.CreateAttr("dependency", strconv.FormatBool(*b.Dependency))
		}
		be.SetText(b.Location)
	}
}
