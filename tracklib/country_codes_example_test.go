package tracklib_test

import (
	"fmt"

	"github.com/9seconds/iptracker/tracklib"
)

func ExampleNormalizeAlpha2Code() {
	fmt.Println(tracklib.NormalizeAlpha2Code(" fx "))
	// output: FR
}

func ExampleNormalizeAlpha2Code_pseudoCodes() {
	for _, code := range []string{"ZZ", "eu", "AP"} {
		fmt.Printf("%s=%q\n", code, tracklib.NormalizeAlpha2Code(code))
	}
	// output:
	// ZZ=""
	// eu=""
	// AP=""
}

func ExampleCountryCode_CommonName() {
	code := tracklib.Alpha2ToCountryCode("uk")

	fmt.Println(code.String(), code.CommonName())
	fmt.Println(tracklib.Alpha2ToCountryCode("zz").Known())
	// output:
	// GB United Kingdom
	// false
}

func ExampleAlpha3ToCountryCode() {
	code := tracklib.Alpha3ToCountryCode("deu")

	fmt.Println(code.String(), code.CommonName())
	// output: DE Germany
}
