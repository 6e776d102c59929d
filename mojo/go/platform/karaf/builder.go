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

// FeaturesBuilder assembles a Features repository.
type FeaturesBuilder struct {
	features *Features
}

// NewFeaturesBuilder returns a builder for a repository with the given name,
// which may be empty.
func NewFeaturesBuilder(name string) *FeaturesBuilder {
	return &FeaturesBuilder{features: &Features{Name: name}}
}

// SetName sets the repository name.
func (b *FeaturesBuilder) SetName(name string) *FeaturesBuilder {
	b.features.Name = name
	return b
}

// AddRepository adds a reference to another features repository.
func (b *FeaturesBuilder) AddRepository(url string) *FeaturesBuilder {
	b.features.Repositories = append(b.features.Repositories, url)
	return b
}

// Features returns the repository being built.
func (b *FeaturesBuilder) Features() *Features { return b.features }

// CreateFeature adds a new feature to the repository and returns a builder
// for it. The version may be empty.
func (b *FeaturesBuilder) CreateFeature(name, version string) *FeatureBuilder {
	fb := NewFeatureBuilder(name, version)
	b.features.Features = append(b.features.Features, fb.Feature())
	return fb
}

// FeatureBuilder assembles a single Feature.
type FeatureBuilder struct {
	feature *Feature
}

// NewFeatureBuilder returns a builder for a standalone feature.
func NewFeatureBuilder(name, version string) *FeatureBuilder {
	return &FeatureBuilder{feature: &Feature{Name: name, Version: version}}
}

// Feature returns the feature being built.
func (b *FeatureBuilder) Feature() *Feature { return b.feature }

func (b *FeatureBuilder) SetVersion(version string) *FeatureBuilder {
	b.feature.Version = version
	return b
}

func (b *FeatureBuilder) SetDescription(description string) *FeatureBuilder {
	b.feature.Description = description
	return b
}

func (b *FeatureBuilder) SetDetails(details string) *FeatureBuilder {
	b.feature.Details = details
	return b
}

// AddConfig adds an inline configuration with the given properties text.
func (b *FeatureBuilder) AddConfig(name, contents string) *FeatureBuilder {
	b.feature.Configs = append(b.feature.Configs, Config{Name: name, Value: contents})
	return b
}

// AddConfigFile adds a configuration file. A nil override leaves the
// attribute unset.
func (b *FeatureBuilder) AddConfigFile(location, finalName string, override *bool) *FeatureBuilder {
	b.feature.ConfigFiles = append(b.feature.ConfigFiles, ConfigFile{
		Location:  location,
		FinalName: finalName,
		Override:  override,
	})
	return b
}

// AddFeature adds a dependency on another feature. The version may be empty.
func (b *FeatureBuilder) AddFeature(name, version string) *FeatureBuilder {
	b.feature.Dependencies = append(b.feature.Dependencies, Dependency{Name: name, Version: version})
	return b
}

// AddBundle adds a bundle with the default start level.
func (b *FeatureBuilder) AddBundle(location string) *FeatureBuilder {
	return b.addBundle(Bundle{Location: location})
}

// AddBundleWithStartLevel adds a bundle with an explicit start level.
func (b *FeatureBuilder) AddBundleWithStartLevel(location string, startLevel int) *FeatureBuilder {
	return b.addBundle(Bundle{Location: location, StartLevel: startLevel})
}

func (b *FeatureBuilder) addBundle(bundle Bundle) *FeatureBuilder {
	b.feature.Bundles = append(b.feature.Bundles, bundle)
	return b
}
