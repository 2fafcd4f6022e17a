package solidity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tokenSource = `// SPDX-License-Identifier: MIT
pragma solidity ^0.8.19;
pragma abicoder v2;

import "./interfaces/IToken.sol";
import {Ownable, Context as Ctx} from "@openzeppelin/contracts/access/Ownable.sol";
import * as Math from '../utils/Math.sol';

/* block comment with contract Fake {} inside */
error Unauthorized(address caller);

struct Balance {
	uint256 amount;
	uint64 updatedAt;
}

uint256 constant MAX_SUPPLY = 1_000_000e18;

function add(uint256 a, uint256 b) pure returns (uint256) {
	return a + b;
}

abstract contract Base is Ctx {
	function name() public view virtual returns (string memory);
}

interface IMintable {
	function mint(address to, uint256 amount) external;
}

library SafeMath {
	function sub(uint256 a, uint256 b) internal pure returns (uint256) {
		require(b <= a, "SafeMath: subtraction overflow {");
		return a - b;
	}
}

/// @notice a token
contract Token is Base, IToken, Ownable(msg.sender), Math.Rounding {
	mapping(address => Balance) private balances;
	string private constant NAME = "Token } with braces";

	constructor() {
		if (true) { balances[msg.sender] = Balance({amount: 1, updatedAt: 0}); }
	}

	function name() public pure override returns (string memory) {
		return NAME;
	}
}
`

func Test_ParseSourceCode(t *testing.T) {
	p := NewParser()

	t.Run("Test parsing top level definitions", func(t *testing.T) {
		unit, err := p.ParseSourceCode("contracts/Token.sol", tokenSource)
		require.Nil(t, err)

		var pragmas []*PragmaDirective
		var imports []*ImportDirective
		var contracts []*ContractDefinition
		var others int
		for _, item := range unit.Items {
			switch {
			case item.Pragma != nil:
				pragmas = append(pragmas, item.Pragma)
			case item.Import != nil:
				imports = append(imports, item.Import)
			case item.Contract != nil:
				contracts = append(contracts, item.Contract)
			case item.Other != nil:
				others++
			}
		}

		require.Len(t, pragmas, 2)
		assert.Equal(t, "solidity", pragmas[0].Name)
		assert.Equal(t, "abicoder", pragmas[1].Name)

		require.Len(t, imports, 3)
		assert.Equal(t, "./interfaces/IToken.sol", imports[0].Path())
		assert.Equal(t, "@openzeppelin/contracts/access/Ownable.sol", imports[1].Path())
		assert.Equal(t, "../utils/Math.sol", imports[2].Path())

		// error, struct, constant and free function
		assert.Equal(t, 4, others)

		require.Len(t, contracts, 4)
		assert.Equal(t, "Base", contracts[0].Name)
		assert.True(t, contracts[0].Abstract)
		assert.Equal(t, "interface", contracts[1].Kind)
		assert.Equal(t, "library", contracts[2].Kind)

		token := contracts[3]
		assert.Equal(t, "Token", token.Name)
		assert.False(t, token.Abstract)
		require.Len(t, token.Bases, 4)
		assert.Equal(t, "Ownable", token.Bases[2].TypeName())
		assert.NotNil(t, token.Bases[2].Args)
		assert.Equal(t, "Math.Rounding", token.Bases[3].String())
		assert.Equal(t, "Rounding", token.Bases[3].TypeName())
	})
	t.Run("Test empty file", func(t *testing.T) {
		unit, err := p.ParseSourceCode("Empty.sol", "// SPDX-License-Identifier: MIT\n")
		require.Nil(t, err)
		assert.Len(t, unit.Items, 0)
	})
	t.Run("Test unbalanced braces fail", func(t *testing.T) {
		_, err := p.ParseSourceCode("Broken.sol", "contract Broken {\n function f() public {\n")
		assert.NotNil(t, err)
	})
	t.Run("Test unterminated string fails", func(t *testing.T) {
		_, err := p.ParseSourceCode("Broken.sol", "contract Broken { string s = \"abc; }")
		assert.NotNil(t, err)
	})
}
