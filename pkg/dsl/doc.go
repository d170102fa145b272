/*
Package dsl provides a fluent builder for form descriptors.

It is an alternative to form files for forms defined in code, in tests, or generated at
runtime.

Example usage:

	b := dsl.New()

	b.Add("email").
		Label("Email").
		Rule(dsl.RequireText(), "{Label} is required").
		Rule(dsl.RegExp(`^[^@]+@[^@]+$`), "{Label} is not an email address")

	b.Add("confirm").
		Label("Confirm email").
		Rule(dsl.EqualTo("email"), "Emails do not match")

	descriptors, err := b.Build()
	if err != nil {
		log.Fatal(err)
	}
	form, err := verdict.New(descriptors)
*/
package dsl
