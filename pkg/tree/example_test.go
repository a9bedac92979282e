package tree_test

import (
	"fmt"

	"github.com/treesym/treesym/pkg/tree"
)

func ExampleNewTleaf() {
	root := tree.NewTleaf(2, 3)
	fmt.Println(root.NLeaves())
	fmt.Println(root.MaxDepth())
	// Output:
	// 6
	// 2
}

func ExampleNode_Swap() {
	root := tree.NewTleaf(2, 2)
	first := root.Child(0)
	if err := root.Swap([]int{1, 0}); err != nil {
		panic(err)
	}
	fmt.Println(first.Coords())
	// Output:
	// [1]
}

func ExampleNewIterator() {
	root := tree.NewTleaf(2, 2)
	it := tree.NewIterator(root, (*tree.Node).IsLeaf)
	for n := it.Next(); n != nil; n = it.Next() {
		fmt.Println(n.Coords())
	}
	// Output:
	// [0 0]
	// [0 1]
	// [1 0]
	// [1 1]
}

func ExampleNewScatterIterator() {
	root := tree.NewTleaf(2, 2)
	it := tree.NewScatterIterator(root, (*tree.Node).IsLeaf)
	for n := it.Next(); n != nil; n = it.Next() {
		fmt.Println(n.Coords())
	}
	// Output:
	// [0 0]
	// [1 0]
	// [0 1]
	// [1 1]
}
