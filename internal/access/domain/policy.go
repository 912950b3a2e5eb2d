package domain

import (
	"strings"

	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/hashicorp/hcl/v2/hclwrite"
	validation "github.com/jellydator/validation"
	"github.com/zclconf/go-cty/cty"

	"github.com/quipay/keysmith/internal/errors"
	appValidation "github.com/quipay/keysmith/internal/validation"
)

// AccessPolicy is a declarative least-privilege policy template. Only its rendered
// document is sent to the store.
type AccessPolicy struct {
	Name                string       `json:"name"`
	Description         string       `json:"description"`
	Path                string       `json:"path"`
	Capabilities        []Capability `json:"capabilities"`
	RequiredSecretPaths []string     `json:"required_secret_paths"`
}

// Validate checks the template.
func (p AccessPolicy) Validate() error {
	err := validation.ValidateStruct(&p,
		validation.Field(&p.Name, validation.Required, appValidation.PolicyName),
		validation.Field(&p.Description, appValidation.NotBlank),
		validation.Field(&p.Path, appValidation.StorePath),
		validation.Field(&p.Capabilities, validation.Required, validation.Each(validation.In(capabilityValues()...))),
		validation.Field(&p.RequiredSecretPaths, validation.Required, validation.Each(validation.Required, appValidation.PolicyPath)),
	)
	if err != nil {
		return errors.Wrap(ErrInvalidAccessPolicy, err.Error())
	}
	return nil
}

// RenderPolicyDocument renders the policy as a store ACL document. The output depends
// only on the template: paths and capabilities keep their declared order.
func RenderPolicyDocument(p AccessPolicy) string {
	file := hclwrite.NewEmptyFile()
	body := file.Body()

	if p.Description != "" {
		body.AppendUnstructuredTokens(hclwrite.Tokens{
			{Type: hclsyntax.TokenComment, Bytes: []byte("# " + p.Description + "\n")},
		})
	}
	body.SetAttributeValue("name", cty.StringVal(p.Name))

	capabilities := capabilityList(p.Capabilities)
	for _, path := range p.RequiredSecretPaths {
		body.AppendNewline()
		block := body.AppendNewBlock("path", []string{path})
		block.Body().SetAttributeValue("capabilities", capabilities)
	}

	return string(file.Bytes())
}

func capabilityList(capabilities []Capability) cty.Value {
	if len(capabilities) == 0 {
		return cty.ListValEmpty(cty.String)
	}
	values := make([]cty.Value, len(capabilities))
	for i, c := range capabilities {
		values[i] = cty.StringVal(string(c))
	}
	return cty.ListVal(values)
}

// SameDocument reports whether two policy documents are equal ignoring surrounding
// whitespace and line endings.
func SameDocument(a, b string) bool {
	normalize := func(s string) string {
		return strings.TrimSpace(strings.ReplaceAll(s, "\r\n", "\n"))
	}
	return normalize(a) == normalize(b)
}
