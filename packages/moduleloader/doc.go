// Package moduleloader loads a set of modules outside of a controller test,
// for tests that only need a module instance or the services it registers.
//
//	loader, err := moduleloader.New([]string{"Baz", "Foo"})
//	foo, err := mvc.GetAs[*foo.Object](loader.ServiceManager(), "FooObject")
package moduleloader
