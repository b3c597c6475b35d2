package resx

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

const project = `<Project Sdk="Microsoft.NET.Sdk">
  <ItemGroup>
    <EmbeddedResource Update="Quotes\QuoteResources.resx">
      <Generator>ResXFileCodeGenerator</Generator>
    </EmbeddedResource>
    <EmbeddedResource Update="Quotes\QuoteResources.de-DE.resx" />
    <EmbeddedResource Update="Other\Missing.resx" />
    <EmbeddedResource Include="Ignored\Included.resx" />
  </ItemGroup>
</Project>`

func TestReadResourceReferences(t *testing.T) {
	root := t.TempDir()
	projectPath := filepath.Join(root, "App.csproj")

	refs, err := ReadResourceReferences([]byte(project), projectPath)
	if err != nil {
		t.Fatalf("ReadResourceReferences: %v", err)
	}
	want := []string{
		filepath.Join(root, "Quotes", "QuoteResources.resx"),
		filepath.Join(root, "Quotes", "QuoteResources.de-DE.resx"),
		filepath.Join(root, "Other", "Missing.resx"),
	}
	if !reflect.DeepEqual(refs, want) {
		t.Fatalf("refs = %v, want %v", refs, want)
	}
}

func TestFilterRootResources(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "Quotes"), 0755); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"QuoteResources.resx", "QuoteResources.de-DE.resx"} {
		if err := os.WriteFile(filepath.Join(root, "Quotes", name), []byte("<root></root>"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	projectPath := filepath.Join(root, "App.csproj")
	if err := os.WriteFile(projectPath, []byte(project), 0644); err != nil {
		t.Fatal(err)
	}

	refs, err := ReadResourceReferencesFile(projectPath)
	if err != nil {
		t.Fatalf("ReadResourceReferencesFile: %v", err)
	}
	got := FilterRootResources(refs)
	want := []string{filepath.Join(root, "Quotes", "QuoteResources.resx")}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("FilterRootResources = %v, want %v", got, want)
	}
}

func TestIsRootResource(t *testing.T) {
	cases := map[string]bool{
		"Strings.resx":       true,
		"Strings.fr-FR.resx": false,
		"Strings.json":       false,
		".resx":              false,
	}
	for in, want := range cases {
		if got := IsRootResource(in); got != want {
			t.Fatalf("IsRootResource(%q) = %v, want %v", in, got, want)
		}
	}
}
