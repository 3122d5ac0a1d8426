package main

import (
	"fmt"

	"github.com/ironclad/converge/pkg/recipe"
	"github.com/spf13/cobra"
)

var recipesCmd = &cobra.Command{
	Use:   "recipes",
	Short: "Inspect the recipe library",
}

var recipesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recipe ids discoverable under a recipe directory",
	RunE:  runRecipesList,
}

var recipesShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print a recipe's declared inputs and resource bundle",
	Args:  cobra.ExactArgs(1),
	RunE:  runRecipesShow,
}

func init() {
	recipesCmd.PersistentFlags().String("dir", "./recipes", "Recipe library directory")
	recipesCmd.AddCommand(recipesListCmd)
	recipesCmd.AddCommand(recipesShowCmd)
}

func runRecipesList(cmd *cobra.Command, args []string) error {
	dir, _ := cmd.Flags().GetString("dir")
	lib, err := recipe.LoadLibrary(dir)
	if err != nil {
		return err
	}

	ids := lib.IDs()
	if len(ids) == 0 {
		fmt.Println("No recipes found")
		return nil
	}
	for _, id := range ids {
		r, _ := lib.Get(id)
		fmt.Printf("%-24s %s\n", id, r.Description)
	}
	return nil
}

func runRecipesShow(cmd *cobra.Command, args []string) error {
	dir, _ := cmd.Flags().GetString("dir")
	id := args[0]

	lib, err := recipe.LoadLibrary(dir)
	if err != nil {
		return err
	}
	r, ok := lib.Get(id)
	if !ok {
		return fmt.Errorf("no such recipe: %s", id)
	}

	fmt.Printf("%s: %s\n\n", r.ID, r.Description)
	fmt.Println("Inputs:")
	for _, name := range r.Inputs.Keys() {
		input, _ := r.Inputs.Get(name)
		fmt.Printf("  %-16s kind=%-8s default=%v\n", name, input.Kind, input.Default)
	}
	fmt.Println()
	fmt.Println("Resources:")
	for _, resID := range r.Resources.Keys() {
		res, _ := r.Resources.Get(resID)
		fmt.Printf("  %-16s type=%s\n", resID, res.Type)
	}
	return nil
}
