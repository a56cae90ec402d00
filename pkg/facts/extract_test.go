package facts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func extractOne(t *testing.T, source, path string) ClassFact {
	t.Helper()
	extractor := New()
	defer extractor.Close()

	classes, err := extractor.Extract([]byte(source), path)
	require.NoError(t, err)
	require.Len(t, classes, 1)
	return classes[0]
}

func TestExtractJavaClass(t *testing.T) {
	source := `package com.shop.orders;

public class Order extends BaseEntity implements Auditable {
    private String id;
    private Customer customer;

    public double total(double rate) {
        this.customer.refresh();
        return computeTotal() * rate;
    }

    private double computeTotal() {
        return 0.0;
    }
}
`
	class := extractOne(t, source, "Order.java")

	assert.Equal(t, "Order", class.Name)
	assert.Equal(t, "com.shop.orders", class.Package)
	assert.Equal(t, "com.shop.orders.Order", class.QualifiedName)
	assert.Equal(t, []string{"BaseEntity", "Auditable"}, class.Supertypes)
	assert.False(t, class.IsInterface)

	require.Len(t, class.Methods, 2)
	assert.Equal(t, "total", class.Methods[0].Name)
	assert.Equal(t, 1, class.Methods[0].Arity)
	assert.Contains(t, class.Methods[0].Calls, "computeTotal")
	assert.Contains(t, class.Methods[0].Calls, "refresh")
	assert.Equal(t, []string{"customer"}, class.Methods[0].UsedFields)

	require.Len(t, class.Fields, 2)
	assert.Equal(t, "id", class.Fields[0].Name)
	assert.Equal(t, "String", class.Fields[0].TypeName)
	assert.Equal(t, "Customer", class.Fields[1].TypeName)
}

func TestExtractJavaInterface(t *testing.T) {
	source := `public interface Repository {
    void save();
}
`
	class := extractOne(t, source, "Repository.java")
	assert.Equal(t, "Repository", class.Name)
	assert.True(t, class.IsInterface)
}

func TestExtractPythonClass(t *testing.T) {
	source := `class Account(Base):
    def __init__(self, owner):
        self.owner = owner
        self.balance = 0

    def deposit(self, amount):
        self.balance += amount
`
	class := extractOne(t, source, "bank/account.py")

	assert.Equal(t, "Account", class.Name)
	assert.Equal(t, []string{"Base"}, class.Supertypes)

	require.Len(t, class.Methods, 2)
	// self is the receiver, not a parameter
	assert.Equal(t, 1, class.Methods[0].Arity)
	assert.Equal(t, 1, class.Methods[1].Arity)
	assert.Equal(t, []string{"balance"}, class.Methods[1].UsedFields)

	names := make([]string, 0, len(class.Fields))
	for _, f := range class.Fields {
		names = append(names, f.Name)
	}
	assert.ElementsMatch(t, []string{"owner", "balance"}, names)
}

func TestExtractTypeScriptClass(t *testing.T) {
	source := `class Cart extends Container {
    items: Item[];

    add(item: Item): void {
        this.items.push(item);
    }
}
`
	class := extractOne(t, source, "cart.ts")

	assert.Equal(t, "Cart", class.Name)
	assert.Equal(t, []string{"Container"}, class.Supertypes)
	require.Len(t, class.Methods, 1)
	assert.Equal(t, "add", class.Methods[0].Name)
	assert.Equal(t, []string{"items"}, class.Methods[0].UsedFields)
}

func TestExtractSkipsTestFiles(t *testing.T) {
	extractor := New()
	defer extractor.Close()

	classes, err := extractor.Extract([]byte("public class OrderTest {}"), "OrderTest.java")
	assert.NoError(t, err)
	assert.Empty(t, classes)
}

func TestExtractIncludesTestFilesWhenConfigured(t *testing.T) {
	extractor := New(WithIncludeTestFiles())
	defer extractor.Close()

	classes, err := extractor.Extract([]byte("public class OrderTest {}"), "OrderTest.java")
	require.NoError(t, err)
	assert.Len(t, classes, 1)
}

func TestExtractUnknownLanguage(t *testing.T) {
	extractor := New()
	defer extractor.Close()

	classes, err := extractor.Extract([]byte("whatever"), "notes.txt")
	assert.NoError(t, err)
	assert.Nil(t, classes)
}

func TestIsTestFile(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"OrderTest.java", true},
		{"order_test.py", true},
		{"test_order.py", true},
		{"cart.test.ts", true},
		{"cart.spec.js", true},
		{"OrderTests.cs", true},
		{"order_spec.rb", true},
		{"src/test/java/Order.java", true},
		{"src/__tests__/cart.ts", true},
		{"Order.java", false},
		{"cart.ts", false},
		{"contest.py", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, IsTestFile(tt.path))
		})
	}
}
